package sitemap

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/brandlens/sitescan/internal/model"
)

// Base business value per page type. The homepage anchors brand
// analysis; commerce pages outrank editorial content.
var pageTypeValue = map[model.PageType]float64{
	model.PageTypeHomepage: 100,
	model.PageTypeProduct:  90,
	model.PageTypeCategory: 75,
	model.PageTypeArticle:  60,
	model.PageTypeResource: 50,
	model.PageTypeGeneric:  40,
}

// keyPageBonus rewards paths that carry concentrated business signal
// regardless of their inferred type.
var keyPageBonus = map[string]float64{
	"/pricing": 15,
	"/plans":   15,
	"/about":   10,
	"/contact": 10,
}

const depthPenaltyPerSegment = 5.0

// Freshness buckets. Missing lastmod scores a neutral 50 so undated
// URLs sort between recently and long-ago updated ones.
const (
	freshnessMissing = 50.0
	freshnessWeek    = 100.0
	freshnessMonth   = 80.0
	freshnessQuarter = 60.0
	freshnessYear    = 40.0
	freshnessStale   = 25.0
)

var productPathMarkers = []string{"/product", "/products/", "/item", "/shop/", "/p/"}
var categoryPathMarkers = []string{"/category", "/categories/", "/collection", "/c/"}
var articlePathMarkers = []string{"/blog", "/news", "/article", "/post", "/press"}
var resourcePathMarkers = []string{"/resource", "/guide", "/whitepaper", "/docs", "/documentation", "/support", "/faq", "/help"}

// ClassifyPageType infers a page type from the URL path.
func ClassifyPageType(loc string) model.PageType {
	u, err := url.Parse(loc)
	if err != nil {
		return model.PageTypeGeneric
	}
	path := strings.ToLower(strings.TrimRight(u.Path, "/"))
	if path == "" {
		return model.PageTypeHomepage
	}
	switch {
	case matchesAny(path, productPathMarkers):
		return model.PageTypeProduct
	case matchesAny(path, categoryPathMarkers):
		return model.PageTypeCategory
	case matchesAny(path, articlePathMarkers):
		return model.PageTypeArticle
	case matchesAny(path, resourcePathMarkers):
		return model.PageTypeResource
	default:
		return model.PageTypeGeneric
	}
}

func matchesAny(path string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

// BusinessValue scores a URL's likely importance in [0, 100] from its
// page type, key-page bonuses, and path depth.
func BusinessValue(loc string, pageType model.PageType) float64 {
	value := pageTypeValue[pageType]

	u, err := url.Parse(loc)
	if err != nil {
		return value
	}
	path := strings.ToLower(strings.TrimRight(u.Path, "/"))

	for prefix, bonus := range keyPageBonus {
		if strings.HasPrefix(path, prefix) {
			value += bonus
			break
		}
	}

	// Deep URLs are usually leaf detail pages with narrow signal.
	depth := 0
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			depth++
		}
	}
	if depth > 2 {
		value -= depthPenaltyPerSegment * float64(depth-2)
	}

	if value > 100 {
		value = 100
	}
	if value < 0 {
		value = 0
	}
	return value
}

// FreshnessScore buckets lastmod recency relative to now.
func FreshnessScore(lastMod *time.Time, now time.Time) float64 {
	if lastMod == nil {
		return freshnessMissing
	}
	age := now.Sub(*lastMod)
	switch {
	case age <= 7*24*time.Hour:
		return freshnessWeek
	case age <= 30*24*time.Hour:
		return freshnessMonth
	case age <= 90*24*time.Hour:
		return freshnessQuarter
	case age <= 365*24*time.Hour:
		return freshnessYear
	default:
		return freshnessStale
	}
}

// Prioritize scores every discovered URL and orders data.URLs by final
// score descending. The homepage, when present, is always moved to the
// front regardless of score: every crawl must anchor on it. When limit
// is positive the list is truncated to at most limit entries.
func Prioritize(data *model.SitemapData, limit int) {
	now := time.Now()
	for _, u := range data.URLs {
		u.PageType = ClassifyPageType(u.Loc)
		u.BusinessValue = BusinessValue(u.Loc, u.PageType)
		u.FreshnessScore = FreshnessScore(u.LastMod, now)
		u.ComputeFinalScore()
	}

	sort.SliceStable(data.URLs, func(i, j int) bool {
		if data.URLs[i].FinalScore != data.URLs[j].FinalScore {
			return data.URLs[i].FinalScore > data.URLs[j].FinalScore
		}
		return data.URLs[i].Loc < data.URLs[j].Loc
	})

	for i, u := range data.URLs {
		if u.PageType == model.PageTypeHomepage && i > 0 {
			homepage := data.URLs[i]
			copy(data.URLs[1:i+1], data.URLs[:i])
			data.URLs[0] = homepage
			break
		}
		if u.PageType == model.PageTypeHomepage {
			break
		}
	}

	if limit > 0 && len(data.URLs) > limit {
		data.URLs = data.URLs[:limit]
	}
}
