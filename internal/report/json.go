package report

import (
	"encoding/json"
	"io"

	"github.com/brandlens/sitescan/internal/model"
)

// JSONWriter emits reports as JSON for the downstream evaluation
// service and other tooling.
//
// Design decision: plain encoding/json, no third-party codec, because:
// 1. Reports are written once per run, speed is irrelevant
// 2. The struct tags on the model already define the wire shape
// 3. One less dependency to track
type JSONWriter struct {
	baseWriter

	// indent settings; compact output when indent is false.
	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output with the given prefix and
// per-level indent string.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter targeting output. Output is
// compact unless an indent option is given.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write emits the full report.
func (w *JSONWriter) Write(report *model.CrawlReport) (int, error) {
	return w.writeJSON(report)
}

// WriteSummary emits only the summary.
func (w *JSONWriter) WriteSummary(summary *model.Summary) (int, error) {
	return w.writeJSON(summary)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	return w.output.Write(append(data, '\n'))
}

// JSONReport is the versioned envelope around a report. Kept separate
// from CrawlReport so output metadata never leaks into the core model
// or the snapshot store.
type JSONReport struct {
	// Version is the sitescan version that produced the report.
	Version string `json:"version"`

	// Report is the full crawl report.
	Report *model.CrawlReport `json:"report"`

	// Summary is the derived roll-up, for consumers that don't want to
	// walk the evidence list.
	Summary *model.Summary `json:"summary,omitempty"`
}

// NewJSONReport wraps a report in the versioned envelope, deriving the
// summary in the process.
func NewJSONReport(report *model.CrawlReport, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Report:  report,
		Summary: model.NewSummary(report),
	}
}

// FullJSONWriter emits reports inside the versioned envelope.
type FullJSONWriter struct {
	*JSONWriter
	version string
}

// NewFullJSONWriter creates an envelope-writing JSONWriter.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write emits the report wrapped in the versioned envelope.
func (w *FullJSONWriter) Write(report *model.CrawlReport) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}
