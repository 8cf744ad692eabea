package model

import (
	"sort"
	"time"
)

// Summary condenses a CrawlReport for terminal display and quick
// programmatic checks.
//
// Design decision: We derive a separate summary struct rather than adding
// display helpers to CrawlReport because:
// 1. Writers need aggregate numbers, not the full evidence payloads
// 2. The summary is cheap to recompute, so it is never persisted
// 3. CrawlReport stays a pure record of what the run observed
type Summary struct {
	// WebsiteURL is the evaluated site.
	WebsiteURL string `json:"website_url"`

	// BrandName is the brand the run was invoked for.
	BrandName string `json:"brand_name,omitempty"`

	// Method is how the evidence was obtained.
	Method CrawlMethod `json:"method"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total run duration.
	Elapsed time.Duration `json:"elapsed,omitempty"`

	// PagesCrawled is the number of pages successfully fetched.
	PagesCrawled int `json:"pages_crawled"`

	// SitemapsProcessed is the number of sitemap documents fetched.
	SitemapsProcessed int `json:"sitemaps_processed"`

	// TimedOut mirrors the report flag.
	TimedOut bool `json:"timed_out"`

	// PartialCrawl mirrors the report flag.
	PartialCrawl bool `json:"partial_crawl"`

	// Error is the report's recorded error message, if any.
	Error string `json:"error,omitempty"`

	// PageEvidenceCount is the number of page-fetch evidence items.
	PageEvidenceCount int `json:"page_evidence_count"`

	// SitemapEvidenceCount is the number of sitemap evidence items.
	SitemapEvidenceCount int `json:"sitemap_evidence_count"`

	// RobotsEvidenceCount is the number of robots evidence items.
	RobotsEvidenceCount int `json:"robots_evidence_count"`

	// BypassEvidenceCount is the number of fallback-strategy evidence items.
	BypassEvidenceCount int `json:"bypass_evidence_count"`

	// SpeculativeCount is how many evidence items carry the speculative flag.
	SpeculativeCount int `json:"speculative_count"`

	// AverageConfidence is the mean confidence across all evidence, 0-100.
	AverageConfidence float64 `json:"average_confidence"`

	// AverageQuality is the mean content-quality score of extracted pages.
	AverageQuality float64 `json:"average_quality"`

	// Industry is the most confident industry inference across pages.
	Industry string `json:"industry,omitempty"`

	// Audience is the audience inference from the same page as Industry.
	Audience string `json:"audience,omitempty"`

	// Emails lists distinct contact emails found across pages.
	Emails []string `json:"emails,omitempty"`

	// Pages summarizes each crawled page.
	Pages []PageSummary `json:"pages,omitempty"`
}

// PageSummary is a one-line view of a crawled page.
type PageSummary struct {
	URL      string  `json:"url"`
	Title    string  `json:"title,omitempty"`
	Quality  float64 `json:"quality"`
	Enhanced bool    `json:"enhanced"`
}

// NewSummary computes a Summary from the report.
func NewSummary(report *CrawlReport) *Summary {
	s := &Summary{
		WebsiteURL:        report.WebsiteURL,
		BrandName:         report.BrandName,
		Method:            report.Method,
		StartedAt:         report.StartedAt,
		Elapsed:           report.Elapsed,
		PagesCrawled:      report.PagesCrawled,
		SitemapsProcessed: report.SitemapsProcessed,
		TimedOut:          report.TimedOut,
		PartialCrawl:      report.PartialCrawl,
		Error:             report.ErrorMessage,
	}

	var confidenceSum float64
	for i := range report.Results {
		res := &report.Results[i]
		confidenceSum += res.Confidence
		if res.Speculative {
			s.SpeculativeCount++
		}
		switch res.Kind {
		case EvidencePageFetch:
			s.PageEvidenceCount++
		case EvidenceSitemapAnalysis:
			s.SitemapEvidenceCount++
		case EvidenceRobotsAnalysis:
			s.RobotsEvidenceCount++
		case EvidenceBypassResult:
			s.BypassEvidenceCount++
		}
	}
	if len(report.Results) > 0 {
		s.AverageConfidence = confidenceSum / float64(len(report.Results))
	}

	s.summarizePages(report)
	return s
}

func (s *Summary) summarizePages(report *CrawlReport) {
	var qualitySum float64
	var qualityCount int
	var bestIndustry float64
	emails := make(map[string]bool)

	for _, ev := range report.PageResults() {
		page := PageSummary{
			URL:      ev.Page.URL,
			Title:    ev.Page.Title,
			Enhanced: ev.Page.Enhanced,
		}
		if ev.Extraction != nil {
			if q := ev.Extraction.Quality; q != nil {
				page.Quality = q.Score
				qualitySum += q.Score
				qualityCount++
			}
			if b := ev.Extraction.Business; b != nil && b.IndustryConfidence > bestIndustry && b.Industry != "" {
				bestIndustry = b.IndustryConfidence
				s.Industry = b.Industry
				s.Audience = b.Audience
			}
			if c := ev.Extraction.Contacts; c != nil {
				for _, email := range c.Emails {
					emails[email] = true
				}
			}
		}
		s.Pages = append(s.Pages, page)
	}

	if qualityCount > 0 {
		s.AverageQuality = qualitySum / float64(qualityCount)
	}
	for email := range emails {
		s.Emails = append(s.Emails, email)
	}
	sort.Strings(s.Emails)
}

// TotalEvidence returns the number of evidence items across all kinds.
func (s *Summary) TotalEvidence() int {
	return s.PageEvidenceCount + s.SitemapEvidenceCount +
		s.RobotsEvidenceCount + s.BypassEvidenceCount
}

// Degraded reports whether the run produced anything weaker than a clean
// crawl (timeout, partial rescue, or fallback synthesis).
func (s *Summary) Degraded() bool {
	return s.TimedOut || s.PartialCrawl ||
		s.Method == MethodPartial || s.Method == MethodIntelligentFallback
}
