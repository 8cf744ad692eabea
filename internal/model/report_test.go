package model

import "testing"

func TestAddResultSetsSpeculativeFlag(t *testing.T) {
	t.Parallel()

	r := NewCrawlReport("https://example.com", "Example", "eval-1", "brand-1")

	r.AddResult(CrawlResult{
		Kind:       EvidenceBypassResult,
		Confidence: 30,
		Bypass:     &BypassEvidence{Result: &BypassResult{Success: true, Method: "synthetic", Confidence: 30}},
	})
	r.AddResult(CrawlResult{
		Kind:       EvidencePageFetch,
		Confidence: 90,
		PageFetch:  &PageFetchEvidence{Page: &Page{URL: "https://example.com"}},
	})

	if !r.Results[0].Speculative {
		t.Error("confidence 30 evidence must be flagged speculative")
	}
	if r.Results[1].Speculative {
		t.Error("confidence 90 evidence must not be flagged speculative")
	}
}

func TestPageResultsFiltersByKind(t *testing.T) {
	t.Parallel()

	r := NewCrawlReport("https://example.com", "", "eval-1", "")
	r.AddResult(CrawlResult{Kind: EvidenceRobotsAnalysis, Confidence: 80,
		RobotsAnalysis: &RobotsAnalysisEvidence{Robots: &RobotsSummary{Found: true}}})
	r.AddResult(CrawlResult{Kind: EvidencePageFetch, Confidence: 95,
		PageFetch: &PageFetchEvidence{Page: &Page{URL: "https://example.com/about"}}})

	pages := r.PageResults()
	if len(pages) != 1 {
		t.Fatalf("expected 1 page result, got %d", len(pages))
	}
	if pages[0].Page.URL != "https://example.com/about" {
		t.Errorf("unexpected page URL %q", pages[0].Page.URL)
	}
}

func TestBypassResultSpeculative(t *testing.T) {
	t.Parallel()

	low := &BypassResult{Confidence: 25}
	high := &BypassResult{Confidence: 75}

	if !low.Speculative() {
		t.Error("confidence 25 should be speculative")
	}
	if high.Speculative() {
		t.Error("confidence 75 should not be speculative")
	}
}
