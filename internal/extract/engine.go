package extract

import (
	"github.com/brandlens/sitescan/internal/htmldoc"
	"github.com/brandlens/sitescan/internal/model"
)

// Input carries the per-page context extractors may use.
type Input struct {
	// PageURL is the URL of the page being analyzed.
	PageURL string

	// BrandName is the brand the crawl was invoked for. When empty, the
	// first segment of the page title is used for brand-mention counting.
	BrandName string
}

// Extractor derives one concern's output from a parsed document and writes
// it into the shared extraction.
//
// Design decision: We use an interface with a registry rather than a fixed
// function list because:
// 1. Extractors can be registered or skipped per configuration
// 2. Each concern is independently testable against fixtures
// 3. New concerns are additive and don't touch the engine
type Extractor interface {
	// Name returns the extractor's name for logging.
	Name() string

	// Extract analyzes the document and fills its section of out.
	Extract(doc *htmldoc.Document, in Input, out *model.PageExtraction) error
}

// Engine runs all registered extractors over a document.
type Engine struct {
	extractors []Extractor
}

// NewEngine creates an Engine with all built-in extractors registered.
func NewEngine() *Engine {
	e := &Engine{extractors: make([]Extractor, 0)}

	e.Register(NewSEOExtractor())
	e.Register(NewAccessibilityExtractor())
	e.Register(NewBusinessExtractor())
	e.Register(NewContactExtractor())
	e.Register(NewQualityExtractor())

	return e
}

// Register adds an extractor to the engine.
func (e *Engine) Register(x Extractor) {
	e.extractors = append(e.extractors, x)
}

// Extract runs every extractor and returns the combined result.
// A failing extractor is skipped; we want as much intelligence as the
// document yields, not an all-or-nothing answer.
func (e *Engine) Extract(doc *htmldoc.Document, in Input) *model.PageExtraction {
	out := &model.PageExtraction{}
	for _, x := range e.extractors {
		if err := x.Extract(doc, in, out); err != nil {
			continue
		}
	}
	return out
}
