package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/brandlens/sitescan/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	return w.WriteSummary(model.NewSummary(report))
}

// WriteSummary outputs the summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeEvidence(md, summary)
	w.writeBusiness(md, summary)
	w.writePages(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Site Evaluation Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Website", "`" + summary.WebsiteURL + "`"},
			{"Brand", summary.BrandName},
			{"Crawl Date", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Method", string(summary.Method)},
			{"Pages Crawled", strconv.Itoa(summary.PagesCrawled)},
			{"Status", w.getStatusText(summary)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on summary state.
func (w *MarkdownWriter) getStatusText(summary *model.Summary) string {
	if summary.TimedOut {
		return "⚠️ Timed Out (partial results)"
	}
	if summary.Error != "" {
		return "❌ Degraded - " + summary.Error
	}
	if summary.PartialCrawl {
		return "⚠️ Partial"
	}
	return "✅ Complete"
}

// writeEvidence writes the evidence summary section.
func (w *MarkdownWriter) writeEvidence(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Evidence Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Evidence", "Count"},
		Rows: [][]string{
			{"📄 Pages", strconv.Itoa(summary.PageEvidenceCount)},
			{"🗺️ Sitemaps", strconv.Itoa(summary.SitemapEvidenceCount)},
			{"🤖 Robots", strconv.Itoa(summary.RobotsEvidenceCount)},
			{"🔍 Fallback", strconv.Itoa(summary.BypassEvidenceCount)},
			{"**Total**", "**" + strconv.Itoa(summary.TotalEvidence()) + "**"},
		},
	})
	md.PlainText("")

	if summary.TotalEvidence() > 0 {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart for evidence distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Evidence Distribution"),
		piechart.WithShowData(true),
	)

	if summary.PageEvidenceCount > 0 {
		chart.LabelAndIntValue("Pages", uint64(summary.PageEvidenceCount))
	}
	if summary.SitemapEvidenceCount > 0 {
		chart.LabelAndIntValue("Sitemaps", uint64(summary.SitemapEvidenceCount))
	}
	if summary.RobotsEvidenceCount > 0 {
		chart.LabelAndIntValue("Robots", uint64(summary.RobotsEvidenceCount))
	}
	if summary.BypassEvidenceCount > 0 {
		chart.LabelAndIntValue("Fallback", uint64(summary.BypassEvidenceCount))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on run degradation.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case summary.Method == model.MethodIntelligentFallback:
		md.Cautionf(
			"No pages could be crawled. All evidence is synthesized or inferred (%d speculative item(s)).",
			summary.SpeculativeCount,
		)
	case summary.TimedOut || summary.Method == model.MethodPartial:
		md.Warningf(
			"The crawl was rescued from a timeout or failure. Results cover %d page(s) only.",
			summary.PagesCrawled,
		)
	case summary.SpeculativeCount > 0:
		md.Importantf(
			"%d evidence item(s) are speculative and must be treated as unverified inference.",
			summary.SpeculativeCount,
		)
	default:
		md.Tip(fmt.Sprintf("Clean crawl with %.0f/100 average evidence confidence.", summary.AverageConfidence))
	}
	md.PlainText("")
}

// writeBusiness writes the inferred business facts, when any.
func (w *MarkdownWriter) writeBusiness(md *markdown.Markdown, summary *model.Summary) {
	if summary.Industry == "" && len(summary.Emails) == 0 {
		return
	}

	md.H2("Business Signals")
	md.PlainText("")

	rows := [][]string{}
	if summary.Industry != "" {
		rows = append(rows, []string{"Industry", summary.Industry})
	}
	if summary.Audience != "" {
		rows = append(rows, []string{"Audience", summary.Audience})
	}
	for _, email := range summary.Emails {
		rows = append(rows, []string{"Contact", email})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Signal", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePages writes the per-page table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Pages")
	md.PlainText("")

	if len(summary.Pages) == 0 {
		md.PlainText("No pages crawled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Pages))
	for i, page := range summary.Pages {
		extraction := "full"
		if !page.Enhanced {
			extraction = "rescued"
		}
		rows[i] = []string{
			truncateString(page.URL, 60),
			truncateString(page.Title, 40),
			fmt.Sprintf("%.0f", page.Quality),
			extraction,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Quality", "Extraction"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sitescan](https://github.com/brandlens/sitescan)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
