// Package extract derives content intelligence from parsed HTML documents:
// SEO analysis, accessibility auditing, and heuristic business inference.
//
// Every extractor is a pure function over an htmldoc.Document, isolated
// from I/O, so the whole engine is unit-testable against fixed HTML
// fixtures. Nothing in this package guarantees accuracy; results are
// keyword and pattern matches scored by confidence elsewhere.
package extract
