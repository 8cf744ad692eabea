package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brandlens/sitescan/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *model.CrawlReport {
	report := model.NewCrawlReport("https://example.com", "Example", "eval-42", "brand-7")
	report.Method = model.MethodSitemapEnhanced
	report.PagesCrawled = 2
	report.SitemapsProcessed = 1
	report.StartedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	report.Elapsed = 12 * time.Second

	report.AddResult(model.CrawlResult{
		Kind:       model.EvidenceRobotsAnalysis,
		Score:      86,
		Confidence: 70,
		RobotsAnalysis: &model.RobotsAnalysisEvidence{
			Robots: &model.RobotsSummary{Found: true, BotFriendly: 86},
		},
	})
	report.AddResult(model.CrawlResult{
		Kind:       model.EvidencePageFetch,
		Score:      90,
		Confidence: 100,
		PageFetch: &model.PageFetchEvidence{
			Page: &model.Page{
				URL:      "https://example.com/",
				Title:    "Example Widgets",
				Enhanced: true,
			},
			Extraction: &model.PageExtraction{
				Quality: &model.ContentQuality{Score: 90, WordCount: 400},
				Business: &model.BusinessIntel{
					Industry:           "technology",
					IndustryConfidence: 80,
					Audience:           "b2b",
				},
				Contacts: &model.ContactInfo{Emails: []string{"hello@example.com"}},
			},
		},
	})
	report.AddResult(model.CrawlResult{
		Kind:       model.EvidencePageFetch,
		Score:      30,
		Confidence: 60,
		PageFetch: &model.PageFetchEvidence{
			Page: &model.Page{
				URL:   "https://example.com/slow",
				Title: "Rescued Page",
			},
		},
	})

	return report
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "SITESCAN REPORT") {
			t.Error("expected output to contain header")
		}
		if !strings.Contains(output, "https://example.com") {
			t.Error("expected output to contain website URL")
		}
		if !strings.Contains(output, "sitemap-enhanced") {
			t.Error("expected output to contain crawl method")
		}
	})

	t.Run("writes evidence summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "EVIDENCE SUMMARY") {
			t.Error("expected evidence summary section")
		}
		if !strings.Contains(output, "PAGES:       2") {
			t.Errorf("expected page evidence count, got:\n%s", output)
		}
	})

	t.Run("writes business signals and pages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "technology") {
			t.Error("expected industry inference")
		}
		if !strings.Contains(output, "hello@example.com") {
			t.Error("expected contact email")
		}
		if !strings.Contains(output, "[+] https://example.com/") {
			t.Error("expected enhanced page marker")
		}
		if !strings.Contains(output, "[~] https://example.com/slow") {
			t.Error("expected rescued page marker")
		}
	})

	t.Run("timed out status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := createTestReport()
		report.TimedOut = true

		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "TIMED OUT") {
			t.Error("expected timed-out status")
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid compact JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.CrawlReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.EvaluationID != "eval-42" {
			t.Errorf("evaluation ID = %q", decoded.EvaluationID)
		}
		if len(decoded.Results) != 3 {
			t.Errorf("expected 3 results, got %d", len(decoded.Results))
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"") {
			t.Error("expected indented JSON")
		}
	})

	t.Run("full writer wraps with version and summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewFullJSONWriter(&buf, "1.2.3")

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var wrapped JSONReport
		if err := json.Unmarshal(buf.Bytes(), &wrapped); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if wrapped.Version != "1.2.3" {
			t.Errorf("version = %q", wrapped.Version)
		}
		if wrapped.Summary == nil || wrapped.Summary.PageEvidenceCount != 2 {
			t.Error("expected computed summary in wrapper")
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes markdown sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Site Evaluation Report",
			"## Evidence Summary",
			"## Business Signals",
			"## Pages",
			"`https://example.com`",
			"Example Widgets",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("missing %q in markdown output", want)
			}
		}
	})

	t.Run("zero-data run renders caution", func(t *testing.T) {
		t.Parallel()

		report := model.NewCrawlReport("https://blocked.example", "", "eval-1", "")
		report.Method = model.MethodIntelligentFallback
		report.PartialCrawl = true
		report.AddResult(model.CrawlResult{
			Kind:       model.EvidenceBypassResult,
			Score:      15,
			Confidence: 15,
			Bypass: &model.BypassEvidence{
				Result: &model.BypassResult{Success: true, Method: "synthetic", Confidence: 15},
			},
		})

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "CAUTION") {
			t.Errorf("expected caution alert, got:\n%s", output)
		}
		if !strings.Contains(output, "No pages crawled.") {
			t.Error("expected empty pages section")
		}
	})
}

// TestMultiWriter tests writing to multiple destinations.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var text, js bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

		if _, err := mw.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text.Len() == 0 || js.Len() == 0 {
			t.Error("expected output in both writers")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := NewMultiWriter(NewJSONWriter(failWriter{}), NewJSONWriter(&buf))

		if _, err := mw.Write(createTestReport()); err == nil {
			t.Fatal("expected error")
		}
		if buf.Len() != 0 {
			t.Error("second writer must not run after an error")
		}
	})
}

// failWriter always fails writes.
type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this is far too long", 10, "this is..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
