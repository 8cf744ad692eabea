package sitemap

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/brandlens/sitescan/internal/model"
)

// Discovery limits.
//
// Design decision: All limits are hard caps rather than configuration
// knobs because:
// 1. Sitemap indexes on large sites can reference thousands of child
//    sitemaps; unbounded recursion turns discovery into the crawl
// 2. A few hundred scored URLs is far more than any page budget uses
// 3. Consecutive 403s mean the site is rejecting our traffic and every
//    further probe raises the chance of a durable block
const (
	maxSitemapFetches     = 10
	maxFetchAttempts      = 30
	maxDiscoveredURLs     = 500
	sufficientURLs        = 50
	forbiddenBreakerLimit = 3
)

// standardPaths are probed in order when robots.txt declares no
// sitemap. The plain /sitemap.xml overwhelmingly dominates; the rest
// cover common CMS conventions.
var standardPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
	"/wp-sitemap.xml",
	"/sitemap/sitemap.xml",
}

// Discoverer locates and parses a site's sitemaps.
type Discoverer struct {
	getter Getter
	logger *slog.Logger
}

// NewDiscoverer creates a Discoverer using getter for HTTP access.
func NewDiscoverer(getter Getter, logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{getter: getter, logger: logger}
}

// Discover walks the site's sitemap tree and returns every URL found,
// deduplicated, up to the discovery caps. robots.txt declarations are
// tried before standard paths; once any candidate yields enough URLs,
// remaining top-level candidates are skipped.
//
// Discover returns an empty SitemapData rather than an error when no
// sitemap exists; the caller falls back to link crawling in that case.
// Only context cancellation is reported as an error.
func (d *Discoverer) Discover(ctx context.Context, siteURL string, robots *model.RobotsSummary) (*model.SitemapData, error) {
	data := &model.SitemapData{}
	base := strings.TrimRight(siteURL, "/")

	var candidates []string
	robotsDeclared := 0
	if robots != nil {
		candidates = append(candidates, robots.SitemapURLs...)
		robotsDeclared = len(robots.SitemapURLs)
	}
	for _, path := range standardPaths {
		candidates = append(candidates, base+path)
	}

	seen := make(map[string]bool)
	fetched := make(map[string]bool)
	consecutiveForbidden := 0

	for i, candidate := range candidates {
		if ctx.Err() != nil {
			return data, ctx.Err()
		}
		if len(data.URLs) >= sufficientURLs {
			break
		}
		if data.SitemapCount >= maxSitemapFetches || len(fetched) >= maxFetchAttempts ||
			consecutiveForbidden >= forbiddenBreakerLimit {
			break
		}

		added := d.walk(ctx, candidate, data, seen, fetched, &consecutiveForbidden)
		if added > 0 && i < robotsDeclared {
			data.FromRobots = true
		}
	}

	if consecutiveForbidden >= forbiddenBreakerLimit {
		d.logger.Warn("sitemap discovery stopped after repeated 403 responses",
			slog.String("site", siteURL))
	}
	d.logger.Info("sitemap discovery finished",
		slog.String("site", siteURL),
		slog.Int("urls", len(data.URLs)),
		slog.Int("sitemaps", data.SitemapCount),
		slog.Bool("from_robots", data.FromRobots))

	return data, nil
}

// walk fetches one sitemap and, for an index, its children
// breadth-first. Returns the number of URLs added to data.
func (d *Discoverer) walk(ctx context.Context, start string, data *model.SitemapData, seen, fetched map[string]bool, consecutiveForbidden *int) int {
	added := 0
	queue := []string{start}

	for len(queue) > 0 {
		if ctx.Err() != nil ||
			data.SitemapCount >= maxSitemapFetches ||
			len(fetched) >= maxFetchAttempts ||
			len(data.URLs) >= maxDiscoveredURLs ||
			*consecutiveForbidden >= forbiddenBreakerLimit {
			break
		}

		loc := queue[0]
		queue = queue[1:]
		if fetched[loc] {
			continue
		}
		fetched[loc] = true

		body, status, err := d.getter.Get(ctx, loc)
		if err != nil {
			d.logger.Debug("sitemap fetch failed", slog.String("url", loc), slog.String("error", err.Error()))
			continue
		}

		if status == http.StatusForbidden {
			*consecutiveForbidden++
			continue
		}
		*consecutiveForbidden = 0
		if status != http.StatusOK {
			continue
		}

		// Only responses that actually were sitemaps count against the
		// fetch budget; candidate-path probes that 404 are free.
		data.SitemapCount++

		urls, children, err := parseSitemap(body)
		if err != nil {
			d.logger.Debug("sitemap parse failed", slog.String("url", loc), slog.String("error", err.Error()))
			continue
		}

		data.Sources = append(data.Sources, loc)
		queue = append(queue, children...)

		for _, u := range urls {
			if len(data.URLs) >= maxDiscoveredURLs {
				break
			}
			if seen[u.Loc] {
				continue
			}
			seen[u.Loc] = true
			data.URLs = append(data.URLs, u)
			added++
		}
	}

	return added
}
