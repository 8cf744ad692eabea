// Package report renders crawl reports for their consumers: plain
// text for the terminal (SimpleWriter), JSON for the evaluation
// service (JSONWriter, FullJSONWriter), and Markdown for sharing
// (MarkdownWriter). All writers derive the same model.Summary, so the
// numbers agree across formats, and all satisfy the Writer interface
// so they compose through MultiWriter.
package report
