package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brandlens/sitescan/internal/bypass"
	"github.com/brandlens/sitescan/internal/config"
	"github.com/brandlens/sitescan/internal/crawler"
	"github.com/brandlens/sitescan/internal/model"
	"github.com/brandlens/sitescan/internal/session"
)

func testOrchestrator(t *testing.T, cfg *config.Config) *Orchestrator {
	t.Helper()
	manager := session.NewManager(
		session.WithRequestInterval(time.Millisecond),
		session.WithMaxJitter(0),
	)
	fetcher := crawler.NewFetcher(manager, crawler.WithLogger(discardLogger()))
	engine := bypass.NewEngine(
		[]bypass.Strategy{bypass.NewSyntheticStrategy()},
		bypass.WithLogger(discardLogger()),
	)
	return NewOrchestrator(cfg, fetcher, engine, discardLogger())
}

func testConfig(siteURL string) *config.Config {
	cfg := config.NewConfig()
	cfg.WebsiteURL = siteURL
	cfg.MaxPages = 5
	return cfg
}

func pageHTML(title string) string {
	return fmt.Sprintf(`<html><head><title>%s</title>
<meta name="description" content="About %s"></head>
<body><h1>%s</h1><p>Quality widgets for every need, built since 2005.</p>
<a href="/about">About</a> <a href="/pricing">Pricing</a></body></html>`, title, title, title)
}

func TestOrchestratorSitemapEnhanced(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprintf(w, "User-agent: *\nAllow: /\nSitemap: http://%s/sitemap.xml\n", r.Host)
		case "/sitemap.xml":
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
<url><loc>http://%[1]s/</loc></url>
<url><loc>http://%[1]s/about</loc></url>
<url><loc>http://%[1]s/pricing</loc></url>
</urlset>`, r.Host)
		default:
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, pageHTML("Example Widgets"))
		}
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	report := testOrchestrator(t, cfg).Run(context.Background())

	if report.Method != model.MethodSitemapEnhanced {
		t.Fatalf("method = %q, want %q", report.Method, model.MethodSitemapEnhanced)
	}
	if report.PagesCrawled != 3 {
		t.Errorf("pages crawled = %d, want 3", report.PagesCrawled)
	}
	if report.EvaluationID == "" {
		t.Error("missing evaluation ID must be generated")
	}
	if report.BrandID != cfg.Domain() {
		t.Errorf("brand ID = %q, want %q", report.BrandID, cfg.Domain())
	}
	if report.SitemapsProcessed == 0 {
		t.Error("expected at least one sitemap processed")
	}
	if report.PartialCrawl || report.TimedOut {
		t.Error("clean run must not be flagged partial or timed out")
	}

	data := sitemapData(report)
	if data == nil || !data.FromRobots {
		t.Fatal("expected robots-declared sitemap evidence")
	}

	pages := report.PageResults()
	if len(pages) != 3 {
		t.Fatalf("expected 3 page results, got %d", len(pages))
	}
	for _, p := range pages {
		if !p.Page.Enhanced {
			t.Errorf("page %s not enhanced", p.Page.URL)
		}
		if p.Extraction == nil || p.Extraction.Quality == nil {
			t.Errorf("page %s missing extraction", p.Page.URL)
		}
		if p.Page.Title != "Example Widgets" {
			t.Errorf("page %s title = %q", p.Page.URL, p.Page.Title)
		}
	}

	if robotsSummary(report) == nil {
		t.Error("expected robots evidence")
	}
}

func TestOrchestratorFallback(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			http.NotFound(w, r)
		case "/", "/about", "/pricing":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, pageHTML("Example"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	report := testOrchestrator(t, testConfig(server.URL)).Run(context.Background())

	if report.Method != model.MethodFallback {
		t.Fatalf("method = %q, want %q", report.Method, model.MethodFallback)
	}
	if report.PagesCrawled != 3 {
		t.Errorf("pages crawled = %d, want 3", report.PagesCrawled)
	}
	if sitemapData(report) != nil {
		t.Error("no sitemap evidence expected")
	}
}

func TestOrchestratorIntelligentFallback(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.BrandName = "Blocked Brand"
	report := testOrchestrator(t, cfg).Run(context.Background())

	if report.Method != model.MethodIntelligentFallback {
		t.Fatalf("method = %q, want %q", report.Method, model.MethodIntelligentFallback)
	}
	if !report.PartialCrawl {
		t.Error("expected partial crawl flag")
	}
	if report.PagesCrawled != 0 {
		t.Errorf("pages crawled = %d, want 0", report.PagesCrawled)
	}

	var found bool
	for _, res := range report.Results {
		if res.Kind != model.EvidenceBypassResult {
			continue
		}
		found = true
		if !res.Speculative {
			t.Error("synthetic evidence must be speculative")
		}
		if res.Bypass == nil || !res.Bypass.Result.Success {
			t.Error("expected a successful fallback result")
		}
	}
	if !found {
		t.Error("expected bypass evidence in a zero-data run")
	}
}

func TestOrchestratorPartialOnMidCrawlTimeout(t *testing.T) {
	t.Parallel()

	// Homepage answers instantly; every other page stalls past the run
	// deadline. The run must keep the homepage result but report itself
	// as a degraded partial crawl, not a clean success.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprintf(w, "User-agent: *\nAllow: /\nSitemap: http://%s/sitemap.xml\n", r.Host)
		case "/sitemap.xml":
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
<url><loc>http://%[1]s/</loc></url>
<url><loc>http://%[1]s/about</loc></url>
<url><loc>http://%[1]s/pricing</loc></url>
</urlset>`, r.Host)
		case "/":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, pageHTML("Example Widgets"))
		default:
			if strings.Contains(r.URL.Path, "sitemap") {
				http.NotFound(w, r)
				return
			}
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		}
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 500 * time.Millisecond
	report := testOrchestrator(t, cfg).Run(context.Background())

	if report.Method != model.MethodPartial {
		t.Fatalf("method = %q, want %q", report.Method, model.MethodPartial)
	}
	if !report.PartialCrawl {
		t.Error("expected partial crawl flag")
	}
	if !report.TimedOut {
		t.Error("expected timed out flag")
	}
	if report.PagesCrawled < 1 {
		t.Errorf("pages crawled = %d, want at least the homepage", report.PagesCrawled)
	}
}

func TestOrchestratorCrawlsSequentiallyHomepageFirst(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		order    []string
		inFlight int
		overlap  bool
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			http.NotFound(w, r)
		case "/sitemap.xml":
			w.Header().Set("Content-Type", "application/xml")
			// Homepage deliberately listed last; the prioritizer must
			// still put it first on the wire.
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
<url><loc>http://%[1]s/blog/post-1</loc></url>
<url><loc>http://%[1]s/about</loc></url>
<url><loc>http://%[1]s/</loc></url>
</urlset>`, r.Host)
		default:
			if strings.Contains(r.URL.Path, "sitemap") {
				http.NotFound(w, r)
				return
			}
			mu.Lock()
			order = append(order, r.URL.Path)
			inFlight++
			if inFlight > 1 {
				overlap = true
			}
			mu.Unlock()

			time.Sleep(30 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()

			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, pageHTML("Example"))
		}
	}))
	defer server.Close()

	report := testOrchestrator(t, testConfig(server.URL)).Run(context.Background())

	if report.PagesCrawled != 3 {
		t.Fatalf("pages crawled = %d, want 3", report.PagesCrawled)
	}

	mu.Lock()
	defer mu.Unlock()
	if overlap {
		t.Error("page fetches overlapped; they must leave one at a time")
	}
	if len(order) == 0 || order[0] != "/" {
		t.Errorf("homepage must be fetched first, order: %v", order)
	}
}

func TestFinalizePartial(t *testing.T) {
	t.Parallel()

	o := testOrchestrator(t, testConfig("https://example.com"))
	report := model.NewCrawlReport("https://example.com", "Example", "eval-1", "brand-1")
	report.PagesCrawled = 2

	o.finalize(report, errors.New("crawl step blew up"))

	if report.Method != model.MethodPartial {
		t.Errorf("method = %q, want %q", report.Method, model.MethodPartial)
	}
	if !report.PartialCrawl {
		t.Error("expected partial crawl flag")
	}
}

func TestFinalizeFromCache(t *testing.T) {
	t.Parallel()

	o := testOrchestrator(t, testConfig("https://example.com"))
	report := model.NewCrawlReport("https://example.com", "Example", "eval-1", "brand-1")
	report.PagesCrawled = 1
	report.AddResult(model.CrawlResult{
		Kind:       model.EvidenceBypassResult,
		Confidence: 85,
		Bypass: &model.BypassEvidence{Result: &model.BypassResult{
			Success:    true,
			Method:     bypass.MethodCachedContent,
			Confidence: 85,
		}},
	})

	o.finalize(report, nil)

	if !report.FromCache {
		t.Error("expected cache-derived report to be flagged")
	}
}

func TestBrandFromDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		domain string
		want   string
	}{
		{"example.com", "Example"},
		{"acme-corp.example.com", "Acme Corp"},
		{"widgets.io", "Widgets"},
	}
	for _, tt := range tests {
		if got := brandFromDomain(tt.domain); got != tt.want {
			t.Errorf("brandFromDomain(%q) = %q, want %q", tt.domain, got, tt.want)
		}
	}
}

func TestRescueMeta(t *testing.T) {
	t.Parallel()

	page := &model.Page{
		Raw: []byte(`<html><head><TITLE> Broken <b>Page</b> </TITLE>
<meta name="description" content="still readable"><body`),
	}
	rescueMeta(page)

	if page.Title != "Broken Page" {
		t.Errorf("title = %q", page.Title)
	}
	if page.Description != "still readable" {
		t.Errorf("description = %q", page.Description)
	}
	if page.Enhanced {
		t.Error("rescued page must not be marked enhanced")
	}
}
