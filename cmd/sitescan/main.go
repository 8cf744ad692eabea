// Package main provides the entry point for the sitescan CLI.
//
// sitescan evaluates a brand's web presence. It discovers a site's
// sitemap, crawls its highest-value pages, extracts content
// intelligence, and emits an evidence report for downstream brand
// scoring.
//
// Usage:
//
//	sitescan scan <website-url>
//	sitescan history <brand-id>
//
// See --help for all available options.
package main

// main is the entry point for sitescan.
func main() {
	Execute()
}
