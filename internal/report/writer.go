package report

import (
	"io"

	"github.com/brandlens/sitescan/internal/model"
)

// Writer emits a crawl report in one output format. The two methods
// cover the two consumers: Write for the full evidence report, and
// WriteSummary when only the derived roll-up is wanted.
type Writer interface {
	// Write outputs the full report, returning bytes written.
	Write(report *model.CrawlReport) (int, error)

	// WriteSummary outputs only the condensed summary.
	WriteSummary(summary *model.Summary) (int, error)
}

// MultiWriter fans a report out to several writers, e.g. the terminal
// and a file in one run. Not io.MultiWriter: these writers take
// reports, not bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer targeting all the given writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write sends the report to every writer in order, stopping at the
// first failure. Returns the total bytes written so far.
func (m *MultiWriter) Write(report *model.CrawlReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary sends the summary to every writer in order.
func (m *MultiWriter) WriteSummary(summary *model.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter holds the output destination shared by all formats.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
