// Package htmldoc parses raw HTML into a traversable document and exposes
// the structural views the extraction engine works with: headings, links,
// images, paragraphs, metadata tags, structured data, and content regions.
//
// The package tolerates malformed markup: recoverable problems such as
// unparseable embedded JSON-LD are swallowed, never propagated. It has no
// knowledge of networking; callers hand it bytes and a base URL.
package htmldoc
