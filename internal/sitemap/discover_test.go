package sitemap

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/brandlens/sitescan/internal/model"
)

func urlsetXML(locs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	for _, loc := range locs {
		b.WriteString("<url><loc>" + loc + "</loc></url>")
	}
	b.WriteString("</urlset>")
	return b.String()
}

func TestParseSitemapURLSet(t *testing.T) {
	t.Parallel()

	doc := `<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url>
    <loc>https://example.com/</loc>
    <lastmod>2025-06-01</lastmod>
    <changefreq>daily</changefreq>
    <priority>0.8</priority>
  </url>
  <url><loc> https://example.com/about </loc></url>
  <url><loc></loc></url>
</urlset>`

	urls, children, err := parseSitemap([]byte(doc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if children != nil {
		t.Errorf("urlset must not yield children, got %v", children)
	}
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls (empty loc skipped), got %d", len(urls))
	}
	if urls[0].LastMod == nil || urls[0].Priority != 0.8 || urls[0].ChangeFreq != "daily" {
		t.Errorf("metadata not parsed: %+v", urls[0])
	}
	if urls[1].Loc != "https://example.com/about" {
		t.Errorf("loc not trimmed: %q", urls[1].Loc)
	}
}

func TestParseSitemapIndex(t *testing.T) {
	t.Parallel()

	doc := `<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/sitemap-pages.xml</loc></sitemap>
  <sitemap><loc>https://example.com/sitemap-posts.xml</loc></sitemap>
</sitemapindex>`

	urls, children, err := parseSitemap([]byte(doc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if urls != nil {
		t.Errorf("index must not yield urls, got %v", urls)
	}
	if len(children) != 2 {
		t.Errorf("expected 2 children, got %v", children)
	}
}

func TestParseSitemapGzip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(urlsetXML("https://example.com/"))); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	urls, _, err := parseSitemap(buf.Bytes())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(urls) != 1 {
		t.Errorf("expected 1 url from gzipped sitemap, got %d", len(urls))
	}
}

func TestParseSitemapRejectsUnknownRoot(t *testing.T) {
	t.Parallel()

	if _, _, err := parseSitemap([]byte(`<html><body>not a sitemap</body></html>`)); err == nil {
		t.Error("expected error for non-sitemap document")
	}
}

func TestDiscoverPrefersRobotsDeclaration(t *testing.T) {
	t.Parallel()

	getter := &stubGetter{responses: map[string]stubResponse{
		"https://example.com/custom-map.xml": {body: urlsetXML("https://example.com/", "https://example.com/about"), status: 200},
		"https://example.com/sitemap.xml":    {body: urlsetXML("https://example.com/other"), status: 200},
	}}
	robots := &model.RobotsSummary{Found: true, SitemapURLs: []string{"https://example.com/custom-map.xml"}}

	data, err := NewDiscoverer(getter, nil).Discover(context.Background(), "https://example.com", robots)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if !data.FromRobots {
		t.Error("expected FromRobots when the robots-declared sitemap yields URLs")
	}
	if getter.calls[0] != "https://example.com/custom-map.xml" {
		t.Errorf("robots declaration must be probed first, calls: %v", getter.calls)
	}
	if len(data.URLs) < 2 {
		t.Errorf("expected URLs from the declared sitemap, got %v", data.URLs)
	}
}

func TestDiscoverFallsBackToStandardPaths(t *testing.T) {
	t.Parallel()

	getter := &stubGetter{responses: map[string]stubResponse{
		"https://example.com/sitemap.xml": {body: urlsetXML("https://example.com/"), status: 200},
	}}

	data, err := NewDiscoverer(getter, nil).Discover(context.Background(), "https://example.com/", nil)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if data.FromRobots {
		t.Error("FromRobots must be false without a robots declaration")
	}
	if len(data.URLs) != 1 {
		t.Errorf("expected 1 URL, got %d", len(data.URLs))
	}
}

func TestDiscoverCountsOnlyParsedSitemaps(t *testing.T) {
	t.Parallel()

	// The declared sitemap and the first standard path are gone; only
	// the index path actually serves a sitemap.
	getter := &stubGetter{responses: map[string]stubResponse{
		"https://example.com/sitemap_index.xml": {
			body:   urlsetXML("https://example.com/", "https://example.com/about"),
			status: 200,
		},
	}}
	robots := &model.RobotsSummary{Found: true, SitemapURLs: []string{"https://example.com/old-map.xml"}}

	data, err := NewDiscoverer(getter, nil).Discover(context.Background(), "https://example.com", robots)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if data.SitemapCount != 1 {
		t.Errorf("404 candidates must not count as sitemaps, got %d", data.SitemapCount)
	}
	if len(getter.calls) < 3 {
		t.Errorf("expected the dead candidates to be attempted, calls: %v", getter.calls)
	}
	if len(data.URLs) != 2 {
		t.Errorf("expected 2 URLs from the live sitemap, got %d", len(data.URLs))
	}
}

func TestDiscoverStopsAfterConsecutiveForbidden(t *testing.T) {
	t.Parallel()

	getter := &stubGetter{responses: map[string]stubResponse{}}
	for _, path := range standardPaths {
		getter.responses["https://example.com"+path] = stubResponse{status: 403}
	}

	data, err := NewDiscoverer(getter, nil).Discover(context.Background(), "https://example.com", nil)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(getter.calls) != forbiddenBreakerLimit {
		t.Errorf("expected probing to stop after %d consecutive 403s, made %d calls",
			forbiddenBreakerLimit, len(getter.calls))
	}
	if len(data.URLs) != 0 {
		t.Errorf("expected no URLs, got %d", len(data.URLs))
	}
}

func TestDiscoverCapsIndexRecursion(t *testing.T) {
	t.Parallel()

	var index strings.Builder
	index.WriteString("<sitemapindex>")
	getter := &stubGetter{responses: map[string]stubResponse{}}
	for i := 0; i < 20; i++ {
		child := fmt.Sprintf("https://example.com/sitemap-%d.xml", i)
		index.WriteString("<sitemap><loc>" + child + "</loc></sitemap>")
		getter.responses[child] = stubResponse{
			body:   urlsetXML(fmt.Sprintf("https://example.com/page-%d", i)),
			status: 200,
		}
	}
	index.WriteString("</sitemapindex>")
	getter.responses["https://example.com/sitemap.xml"] = stubResponse{body: index.String(), status: 200}

	data, err := NewDiscoverer(getter, nil).Discover(context.Background(), "https://example.com", nil)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if data.SitemapCount != maxSitemapFetches {
		t.Errorf("expected fetches capped at %d, got %d", maxSitemapFetches, data.SitemapCount)
	}
	// The index itself consumes one fetch.
	if len(data.URLs) != maxSitemapFetches-1 {
		t.Errorf("expected %d URLs, got %d", maxSitemapFetches-1, len(data.URLs))
	}
}

func TestDiscoverDeduplicatesURLs(t *testing.T) {
	t.Parallel()

	getter := &stubGetter{responses: map[string]stubResponse{
		"https://example.com/sitemap.xml": {
			body:   urlsetXML("https://example.com/a", "https://example.com/a", "https://example.com/b"),
			status: 200,
		},
	}}

	data, err := NewDiscoverer(getter, nil).Discover(context.Background(), "https://example.com", nil)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(data.URLs) != 2 {
		t.Errorf("expected duplicates collapsed to 2 URLs, got %d", len(data.URLs))
	}
}
