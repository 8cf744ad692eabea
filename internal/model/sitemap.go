package model

import "time"

// PageType classifies a sitemap URL by the kind of content its path suggests.
type PageType string

// Page type values inferred from URL path patterns.
const (
	PageTypeHomepage PageType = "homepage"
	PageTypeProduct  PageType = "product"
	PageTypeCategory PageType = "category"
	PageTypeArticle  PageType = "article"
	PageTypeResource PageType = "resource"
	PageTypeGeneric  PageType = "page"
)

// Weights for the final score combination. Business value dominates because
// it is the signal the downstream scorer cares most about; declared priority
// is self-reported by the site and therefore weighted lowest.
const (
	BusinessValueWeight = 0.5
	FreshnessWeight     = 0.3
	PriorityWeight      = 0.2
)

// SitemapURL is a discovered URL with its sitemap metadata and the scores
// derived during prioritization.
//
// Lifecycle: created during XML parsing, scored during prioritization,
// consumed once during the crawl. Instances are not persisted beyond a
// single run.
type SitemapURL struct {
	// Loc is the URL itself.
	Loc string `json:"loc"`

	// LastMod is the declared last-modification time, if any.
	LastMod *time.Time `json:"lastmod,omitempty"`

	// ChangeFreq is the declared change frequency, if any.
	ChangeFreq string `json:"changefreq,omitempty"`

	// Priority is the declared sitemap priority in [0, 1].
	Priority float64 `json:"priority,omitempty"`

	// PageType is inferred from path-pattern heuristics.
	PageType PageType `json:"page_type"`

	// BusinessValue scores the URL's likely importance to brand and
	// commerce analysis, in [0, 100].
	BusinessValue float64 `json:"business_value"`

	// FreshnessScore scores lastmod recency, in [0, 100]. Missing lastmod
	// gets a neutral 50.
	FreshnessScore float64 `json:"freshness_score"`

	// FinalScore is the weighted combination used for crawl ordering.
	FinalScore float64 `json:"final_score"`
}

// ComputeFinalScore derives FinalScore from the URL's own fields.
// The invariant is that the score depends on no external state, so
// re-scoring a URL is always safe and deterministic.
func (u *SitemapURL) ComputeFinalScore() {
	u.FinalScore = BusinessValueWeight*u.BusinessValue +
		FreshnessWeight*u.FreshnessScore +
		PriorityWeight*(u.Priority*100)
}

// SitemapData is the aggregated result of sitemap discovery: all URLs found
// across the sitemap tree plus provenance for the report.
type SitemapData struct {
	// URLs are the discovered entries, scored and sorted by FinalScore
	// descending after prioritization.
	URLs []*SitemapURL `json:"urls"`

	// Sources lists the sitemap files that contributed URLs.
	Sources []string `json:"sources,omitempty"`

	// SitemapCount is the number of sitemap documents fetched, including
	// children of sitemap indexes.
	SitemapCount int `json:"sitemap_count"`

	// FromRobots is true when the winning sitemap location came from a
	// robots.txt Sitemap declaration rather than path probing.
	FromRobots bool `json:"from_robots"`
}

// RobotsSummary captures the secondary bot-friendliness signal taken from
// robots.txt. It is never used to hard-block crawling.
type RobotsSummary struct {
	// Found is true when robots.txt was fetched successfully.
	Found bool `json:"found"`

	// SitemapURLs are the Sitemap: declarations found in the file.
	SitemapURLs []string `json:"sitemap_urls,omitempty"`

	// DisallowCount is the number of Disallow directives.
	DisallowCount int `json:"disallow_count"`

	// CrawlDelay is the declared crawl-delay in seconds, 0 if absent.
	CrawlDelay float64 `json:"crawl_delay,omitempty"`

	// BotFriendly scores how welcoming the file is to crawlers, in [0, 100].
	BotFriendly float64 `json:"bot_friendly"`
}
