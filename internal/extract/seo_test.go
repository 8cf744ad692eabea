package extract

import (
	"strings"
	"testing"
)

func TestSEOTitleScoring(t *testing.T) {
	t.Parallel()

	t.Run("in-range title scores full", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head><title>Acme Widgets - Industrial Widget Supplier</title></head><body></body></html>`
		out := runExtractor(t, NewSEOExtractor(), markup, "https://example.com/")

		if out.SEO.TitleScore != 100 {
			t.Errorf("expected 100, got %v", out.SEO.TitleScore)
		}
	})

	t.Run("missing title scores zero", func(t *testing.T) {
		t.Parallel()

		out := runExtractor(t, NewSEOExtractor(), `<html><body></body></html>`, "https://example.com/")
		if out.SEO.TitleScore != 0 {
			t.Errorf("expected 0, got %v", out.SEO.TitleScore)
		}
	})

	t.Run("short title scores proportionally", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head><title>Acme</title></head><body></body></html>`
		out := runExtractor(t, NewSEOExtractor(), markup, "https://example.com/")

		if out.SEO.TitleScore <= 0 || out.SEO.TitleScore >= 100 {
			t.Errorf("expected partial score, got %v", out.SEO.TitleScore)
		}
	})
}

func TestSEOHeadingValidation(t *testing.T) {
	t.Parallel()

	markup := `<html><body><h2>Start</h2><h4>Skipped</h4></body></html>`
	out := runExtractor(t, NewSEOExtractor(), markup, "https://example.com/")

	types := make(map[string]bool)
	for _, issue := range out.SEO.HeadingIssues {
		types[issue.Type] = true
	}
	if !types["missing_h1"] {
		t.Error("expected missing_h1 issue")
	}
	if !types["skipped_heading_level"] {
		t.Error("expected skipped_heading_level issue")
	}
}

func TestSEOKeywordDensity(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("widgets manufacturing quality ", 20)
	markup := `<html><body><p>` + body + `</p></body></html>`
	out := runExtractor(t, NewSEOExtractor(), markup, "https://example.com/")

	if len(out.SEO.KeywordDensity) == 0 {
		t.Fatal("expected keyword density output")
	}
	if _, ok := out.SEO.KeywordDensity["widgets"]; !ok {
		t.Error("expected 'widgets' among top keywords")
	}
	for word := range out.SEO.KeywordDensity {
		if stopwords[word] {
			t.Errorf("stopword %q leaked into density map", word)
		}
	}
}

func TestSEOReadability(t *testing.T) {
	t.Parallel()

	short := `<html><body><p>` + strings.Repeat("We make widgets. ", 30) + `</p></body></html>`
	long := `<html><body><p>` + strings.Repeat("word ", 200) + `.</p></body></html>`

	easyOut := runExtractor(t, NewSEOExtractor(), short, "https://example.com/")
	hardOut := runExtractor(t, NewSEOExtractor(), long, "https://example.com/")

	if easyOut.SEO.Readability <= hardOut.SEO.Readability {
		t.Errorf("short sentences must read easier: %v vs %v",
			easyOut.SEO.Readability, hardOut.SEO.Readability)
	}
}
