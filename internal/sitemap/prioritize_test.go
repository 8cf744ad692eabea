package sitemap

import (
	"testing"
	"time"

	"github.com/brandlens/sitescan/internal/model"
)

func TestClassifyPageType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		loc  string
		want model.PageType
	}{
		{"https://example.com/", model.PageTypeHomepage},
		{"https://example.com", model.PageTypeHomepage},
		{"https://example.com/products/widget", model.PageTypeProduct},
		{"https://example.com/shop/widgets", model.PageTypeProduct},
		{"https://example.com/collections/summer", model.PageTypeCategory},
		{"https://example.com/blog/launch-post", model.PageTypeArticle},
		{"https://example.com/docs/setup", model.PageTypeResource},
		{"https://example.com/team", model.PageTypeGeneric},
	}
	for _, tt := range tests {
		if got := ClassifyPageType(tt.loc); got != tt.want {
			t.Errorf("ClassifyPageType(%q) = %q, want %q", tt.loc, got, tt.want)
		}
	}
}

func TestBusinessValue(t *testing.T) {
	t.Parallel()

	t.Run("pricing bonus", func(t *testing.T) {
		t.Parallel()

		plain := BusinessValue("https://example.com/team", model.PageTypeGeneric)
		pricing := BusinessValue("https://example.com/pricing", model.PageTypeGeneric)
		if pricing <= plain {
			t.Errorf("pricing page must outrank a plain page: %v vs %v", pricing, plain)
		}
	})

	t.Run("depth penalty", func(t *testing.T) {
		t.Parallel()

		shallow := BusinessValue("https://example.com/products/widget", model.PageTypeProduct)
		deep := BusinessValue("https://example.com/products/2021/archive/eu/widget", model.PageTypeProduct)
		if deep >= shallow {
			t.Errorf("deep URL must score below shallow URL: %v vs %v", deep, shallow)
		}
	})

	t.Run("bounded", func(t *testing.T) {
		t.Parallel()

		v := BusinessValue("https://example.com/pricing", model.PageTypeHomepage)
		if v > 100 {
			t.Errorf("value must cap at 100, got %v", v)
		}
	})
}

func TestFreshnessScore(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	daysAgo := func(d int) *time.Time {
		t := now.AddDate(0, 0, -d)
		return &t
	}

	tests := []struct {
		name    string
		lastMod *time.Time
		want    float64
	}{
		{"this week", daysAgo(3), freshnessWeek},
		{"this month", daysAgo(20), freshnessMonth},
		{"this quarter", daysAgo(60), freshnessQuarter},
		{"this year", daysAgo(200), freshnessYear},
		{"stale", daysAgo(400), freshnessStale},
		{"missing", nil, freshnessMissing},
	}
	for _, tt := range tests {
		if got := FreshnessScore(tt.lastMod, now); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPrioritizeOrdering(t *testing.T) {
	t.Parallel()

	recent := time.Now().AddDate(0, 0, -2)
	old := time.Now().AddDate(-2, 0, 0)

	data := &model.SitemapData{URLs: []*model.SitemapURL{
		{Loc: "https://example.com/blog/old-post", LastMod: &old},
		{Loc: "https://example.com/products/widget", LastMod: &recent},
		{Loc: "https://example.com/blog/new-post", LastMod: &recent},
	}}

	Prioritize(data, 0)

	if data.URLs[0].Loc != "https://example.com/products/widget" {
		t.Errorf("fresh product page must rank first, got %q", data.URLs[0].Loc)
	}
	if data.URLs[2].Loc != "https://example.com/blog/old-post" {
		t.Errorf("stale article must rank last, got %q", data.URLs[2].Loc)
	}
	for _, u := range data.URLs {
		if u.FinalScore == 0 {
			t.Errorf("every URL must be scored, %q has zero score", u.Loc)
		}
	}
}

func TestPrioritizeHomepageFirst(t *testing.T) {
	t.Parallel()

	recent := time.Now().AddDate(0, 0, -1)

	// The homepage carries no lastmod, so pure scoring could rank the
	// fresh product page above it.
	data := &model.SitemapData{URLs: []*model.SitemapURL{
		{Loc: "https://example.com/products/widget", LastMod: &recent, Priority: 1.0},
		{Loc: "https://example.com/"},
	}}

	Prioritize(data, 0)

	if data.URLs[0].PageType != model.PageTypeHomepage {
		t.Errorf("homepage must always crawl first, got %q", data.URLs[0].Loc)
	}
}

func TestPrioritizeLimit(t *testing.T) {
	t.Parallel()

	data := &model.SitemapData{URLs: []*model.SitemapURL{
		{Loc: "https://example.com/a"},
		{Loc: "https://example.com/b"},
		{Loc: "https://example.com/c"},
	}}

	Prioritize(data, 2)
	if len(data.URLs) != 2 {
		t.Errorf("expected truncation to 2, got %d", len(data.URLs))
	}
}
