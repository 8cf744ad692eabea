package extract

import (
	"testing"

	"github.com/brandlens/sitescan/internal/htmldoc"
	"github.com/brandlens/sitescan/internal/model"
)

func runExtractor(t *testing.T, x Extractor, markup, baseURL string) *model.PageExtraction {
	t.Helper()

	doc, err := htmldoc.Load(markup, baseURL)
	if err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}
	out := &model.PageExtraction{}
	if err := x.Extract(doc, Input{PageURL: baseURL}, out); err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	return out
}

// TestAccessibilityDeductionTable pins the exact deduction arithmetic:
// one image missing alt (-15), zero H1s (-25), one empty-text link (-10)
// leaves 50 of the 100-point baseline.
func TestAccessibilityDeductionTable(t *testing.T) {
	t.Parallel()

	markup := `<html><body>
		<h2>Not an H1</h2>
		<img src="/a.png">
		<a href="/somewhere"></a>
		<a href="/labelled">Fine link</a>
		<img src="/b.png" alt="described">
	</body></html>`

	out := runExtractor(t, NewAccessibilityExtractor(), markup, "https://example.com/")

	if out.Accessibility == nil {
		t.Fatal("expected accessibility audit")
	}
	if out.Accessibility.Score != 50 {
		t.Errorf("expected score 50, got %v", out.Accessibility.Score)
	}
	if len(out.Accessibility.Issues) != 3 {
		t.Errorf("expected 3 issues, got %d", len(out.Accessibility.Issues))
	}
}

func TestAccessibilityCleanPage(t *testing.T) {
	t.Parallel()

	markup := `<html><body>
		<h1>Topic</h1>
		<img src="/a.png" alt="described">
		<a href="/somewhere">Somewhere</a>
	</body></html>`

	out := runExtractor(t, NewAccessibilityExtractor(), markup, "https://example.com/")
	if out.Accessibility.Score != 100 {
		t.Errorf("expected full score, got %v", out.Accessibility.Score)
	}
	if len(out.Accessibility.Issues) != 0 {
		t.Errorf("expected no issues, got %v", out.Accessibility.Issues)
	}
}

func TestAccessibilityScoreFloor(t *testing.T) {
	t.Parallel()

	markup := `<html><body>
		<img src="/1.png"><img src="/2.png"><img src="/3.png">
		<img src="/4.png"><img src="/5.png"><img src="/6.png">
		<img src="/7.png"><img src="/8.png">
	</body></html>`

	out := runExtractor(t, NewAccessibilityExtractor(), markup, "https://example.com/")
	if out.Accessibility.Score != 0 {
		t.Errorf("score must floor at 0, got %v", out.Accessibility.Score)
	}
}

func TestAccessibilityDuplicateH1(t *testing.T) {
	t.Parallel()

	markup := `<html><body><h1>One</h1><h1>Two</h1></body></html>`
	out := runExtractor(t, NewAccessibilityExtractor(), markup, "https://example.com/")

	if out.Accessibility.Score != 90 {
		t.Errorf("expected 90 after duplicate-H1 deduction, got %v", out.Accessibility.Score)
	}
}
