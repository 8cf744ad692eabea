package model

// EvidenceKind identifies the type of a CrawlResult payload.
type EvidenceKind string

// Evidence kinds produced by the pipeline.
const (
	EvidencePageFetch       EvidenceKind = "page_fetch"
	EvidenceSitemapAnalysis EvidenceKind = "sitemap_analysis"
	EvidenceRobotsAnalysis  EvidenceKind = "robots_analysis"
	EvidenceBypassResult    EvidenceKind = "bypass_result"
)

// SpeculativeThreshold is the confidence at or below which evidence must be
// flagged speculative. Downstream consumers are required to treat flagged
// evidence as unverified inference, not fact.
const SpeculativeThreshold = 40

// CrawlResult is one typed unit of evidence. The envelope (kind, score,
// confidence) is shared by all kinds; exactly one payload field is non-nil,
// matching Kind.
//
// Design decision: We use a struct with one pointer per kind rather than an
// interface because:
// 1. JSON serialization stays flat and self-describing
// 2. Consumers can switch on Kind without type assertions
// 3. New kinds are additive and don't break existing decoders
type CrawlResult struct {
	// Kind discriminates the payload.
	Kind EvidenceKind `json:"kind"`

	// Score is the 0-100 quality/importance score for this evidence.
	Score float64 `json:"score"`

	// Confidence is the 0-100 evidentiary strength of the data.
	Confidence float64 `json:"confidence"`

	// Speculative is true for evidence whose confidence is at or below
	// SpeculativeThreshold. It is set centrally by AddResult so the flag
	// can never drift from the confidence value.
	Speculative bool `json:"speculative,omitempty"`

	// PageFetch is set when Kind is EvidencePageFetch.
	PageFetch *PageFetchEvidence `json:"page_fetch,omitempty"`

	// SitemapAnalysis is set when Kind is EvidenceSitemapAnalysis.
	SitemapAnalysis *SitemapAnalysisEvidence `json:"sitemap_analysis,omitempty"`

	// RobotsAnalysis is set when Kind is EvidenceRobotsAnalysis.
	RobotsAnalysis *RobotsAnalysisEvidence `json:"robots_analysis,omitempty"`

	// Bypass is set when Kind is EvidenceBypassResult.
	Bypass *BypassEvidence `json:"bypass,omitempty"`
}

// PageFetchEvidence carries a crawled page and what was extracted from it.
type PageFetchEvidence struct {
	// Page is the fetched page, including partial HTML when the fetch was
	// rescued from a timeout.
	Page *Page `json:"page"`

	// Extraction is the content-intelligence output for the page, nil when
	// HTML processing was skipped or timed out.
	Extraction *PageExtraction `json:"extraction,omitempty"`
}

// SitemapAnalysisEvidence carries the discovery output.
type SitemapAnalysisEvidence struct {
	Sitemap *SitemapData `json:"sitemap"`
}

// RobotsAnalysisEvidence carries the robots.txt summary.
type RobotsAnalysisEvidence struct {
	Robots *RobotsSummary `json:"robots"`
}

// BypassEvidence carries the outcome of the fallback-strategy chain.
type BypassEvidence struct {
	Result *BypassResult `json:"result"`
}
