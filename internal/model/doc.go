// Package model defines the data structures shared across the sitescan
// crawl pipeline: crawled pages, prioritized sitemap URLs, typed evidence
// results, and the final crawl report consumed by downstream scoring.
//
// The package has no dependencies on other internal packages so that every
// layer (discovery, crawling, extraction, bypass, persistence) can exchange
// data without import cycles.
package model
