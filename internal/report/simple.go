package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/brandlens/sitescan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no content are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	return w.WriteSummary(model.NewSummary(report))
}

// WriteSummary outputs the summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeEvidence(&sb, summary)
	w.writeBusiness(&sb, summary)
	w.writePages(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         SITESCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Website:        %s\n", summary.WebsiteURL))
	if summary.BrandName != "" {
		sb.WriteString(fmt.Sprintf("Brand:          %s\n", summary.BrandName))
	}
	sb.WriteString(fmt.Sprintf("Crawl Date:     %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Method:         %s\n", summary.Method))
	sb.WriteString(fmt.Sprintf("Pages Crawled:  %d\n", summary.PagesCrawled))

	switch {
	case summary.TimedOut:
		sb.WriteString("Status:         TIMED OUT (partial results)\n")
	case summary.Error != "":
		sb.WriteString(fmt.Sprintf("Status:         DEGRADED - %s\n", summary.Error))
	case summary.PartialCrawl:
		sb.WriteString("Status:         PARTIAL\n")
	default:
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeEvidence writes the evidence summary section.
func (w *SimpleWriter) writeEvidence(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("EVIDENCE SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  PAGES:       %d\n", summary.PageEvidenceCount))
	sb.WriteString(fmt.Sprintf("  SITEMAPS:    %d\n", summary.SitemapEvidenceCount))
	sb.WriteString(fmt.Sprintf("  ROBOTS:      %d\n", summary.RobotsEvidenceCount))
	sb.WriteString(fmt.Sprintf("  FALLBACK:    %d\n", summary.BypassEvidenceCount))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:       %d items (%d speculative)\n",
		summary.TotalEvidence(), summary.SpeculativeCount))
	sb.WriteString(fmt.Sprintf("  CONFIDENCE:  %.0f/100 average\n", summary.AverageConfidence))
	sb.WriteString("\n")
}

// writeBusiness writes the inferred business facts, when any.
func (w *SimpleWriter) writeBusiness(sb *strings.Builder, summary *model.Summary) {
	if summary.Industry == "" && len(summary.Emails) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("BUSINESS SIGNALS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if summary.Industry != "" {
		sb.WriteString(fmt.Sprintf("  Industry:  %s\n", summary.Industry))
	}
	if summary.Audience != "" {
		sb.WriteString(fmt.Sprintf("  Audience:  %s\n", summary.Audience))
	}
	for _, email := range summary.Emails {
		sb.WriteString(fmt.Sprintf("  Contact:   %s\n", email))
	}
	sb.WriteString("\n")
}

// writePages writes the per-page summary section.
func (w *SimpleWriter) writePages(sb *strings.Builder, summary *model.Summary) {
	if len(summary.Pages) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Pages) == 0 {
		sb.WriteString("  No pages crawled\n")
	}
	for _, page := range summary.Pages {
		marker := "+"
		if !page.Enhanced {
			marker = "~"
		}
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", marker, page.URL))
		if page.Title != "" {
			sb.WriteString(fmt.Sprintf("      Title:   %s\n", page.Title))
		}
		if w.verbose {
			sb.WriteString(fmt.Sprintf("      Quality: %.0f/100\n", page.Quality))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by sitescan\n")
	sb.WriteString("https://github.com/brandlens/sitescan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
