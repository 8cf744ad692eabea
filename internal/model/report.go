package model

import "time"

// CrawlMethod describes how a crawl run obtained its evidence.
type CrawlMethod string

// Crawl methods, from strongest to weakest evidence.
const (
	// MethodSitemapEnhanced means sitemap discovery succeeded and pages
	// were crawled in priority order.
	MethodSitemapEnhanced CrawlMethod = "sitemap-enhanced"

	// MethodFallback means no sitemap was found; the homepage and its
	// same-domain links were crawled instead.
	MethodFallback CrawlMethod = "fallback"

	// MethodPartial means the run failed or timed out after collecting
	// some data, and the result was synthesized from partial state.
	MethodPartial CrawlMethod = "partial"

	// MethodIntelligentFallback means nothing was collected and minimal
	// synthetic evidence was constructed so consumers still receive a
	// well-formed result.
	MethodIntelligentFallback CrawlMethod = "intelligent-fallback"
)

// CrawlReport is the result of one crawl invocation: a set of typed
// evidence items plus run metadata.
//
// Design decision: We use a single report struct accumulated across
// pipeline steps rather than returning per-step values because:
// 1. Steps are sequenced and each enriches the same run
// 2. Serialization and persistence need one root object
// 3. Partial-result synthesis can inspect everything collected so far
type CrawlReport struct {
	// WebsiteURL is the root URL the run was invoked with.
	WebsiteURL string `json:"website_url"`

	// BrandName is the caller-supplied brand, or one derived from the
	// domain when absent.
	BrandName string `json:"brand_name,omitempty"`

	// EvaluationID identifies the run for the downstream scorer.
	EvaluationID string `json:"evaluation_id"`

	// BrandID identifies the brand in the external store.
	BrandID string `json:"brand_id,omitempty"`

	// Method records how the evidence was obtained.
	Method CrawlMethod `json:"method"`

	// Results holds all typed evidence collected during the run.
	Results []CrawlResult `json:"results"`

	// PagesCrawled is the number of pages successfully fetched.
	PagesCrawled int `json:"pages_crawled"`

	// SitemapsProcessed is the number of sitemap documents fetched.
	SitemapsProcessed int `json:"sitemaps_processed"`

	// PartialCrawl is true when the run was rescued from a timeout or
	// failure with whatever data had been collected.
	PartialCrawl bool `json:"partial_crawl"`

	// FromCache is true when bypass evidence was served from previously
	// stored snapshot content rather than a live source.
	FromCache bool `json:"from_cache"`

	// TimedOut is true when the outer deadline expired.
	TimedOut bool `json:"timed_out"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total run duration.
	Elapsed time.Duration `json:"elapsed,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// ErrorMessage records a non-fatal error for diagnostics. The run
	// itself still produces a well-formed result.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewCrawlReport creates a report for the given target.
func NewCrawlReport(websiteURL, brandName, evaluationID, brandID string) *CrawlReport {
	return &CrawlReport{
		WebsiteURL:   websiteURL,
		BrandName:    brandName,
		EvaluationID: evaluationID,
		BrandID:      brandID,
		Results:      make([]CrawlResult, 0),
		StartedAt:    time.Now(),
	}
}

// AddResult appends evidence to the report, setting the Speculative flag
// from the confidence so the two can never disagree.
func (r *CrawlReport) AddResult(res CrawlResult) {
	res.Speculative = res.Confidence <= SpeculativeThreshold
	r.Results = append(r.Results, res)
}

// PageResults returns all page-fetch evidence in the report.
func (r *CrawlReport) PageResults() []*PageFetchEvidence {
	pages := make([]*PageFetchEvidence, 0, len(r.Results))
	for i := range r.Results {
		if r.Results[i].Kind == EvidencePageFetch && r.Results[i].PageFetch != nil {
			pages = append(pages, r.Results[i].PageFetch)
		}
	}
	return pages
}
