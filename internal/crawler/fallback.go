package crawler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/brandlens/sitescan/internal/htmldoc"
)

// Fallback crawl limits. Without a sitemap we walk links breadth-first
// from the homepage; the caps keep a link-dense site from consuming
// the whole page budget on one hub page's neighbors.
const (
	fallbackMaxPages = 15
	fallbackMaxDepth = 2
)

// skipExtensions are asset paths a link walk must not spend fetches on.
var skipExtensions = []string{
	".pdf", ".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp",
	".css", ".js", ".zip", ".mp4", ".mp3", ".ico", ".xml",
}

// DiscoverLinks walks same-domain links breadth-first starting at
// siteURL and returns up to limit URLs in discovery order, the start
// URL first. Used when sitemap discovery comes up empty. Fetch
// failures skip the page rather than aborting the walk.
func (f *Fetcher) DiscoverLinks(ctx context.Context, siteURL string, limit int) []string {
	if limit <= 0 || limit > fallbackMaxPages {
		limit = fallbackMaxPages
	}

	start := strings.TrimRight(siteURL, "/") + "/"
	type queued struct {
		url   string
		depth int
	}

	seen := map[string]bool{start: true}
	discovered := []string{start}
	queue := []queued{{url: start, depth: 0}}

	for len(queue) > 0 && len(discovered) < limit {
		if ctx.Err() != nil {
			break
		}
		item := queue[0]
		queue = queue[1:]
		if item.depth >= fallbackMaxDepth {
			continue
		}

		page, err := f.FetchPage(ctx, item.url)
		if err != nil || page.StatusCode != http.StatusOK || !page.IsHTML() {
			f.logger.Debug("fallback walk skipping page", slog.String("url", item.url))
			continue
		}

		doc, err := htmldoc.Load(string(page.Raw), item.url)
		if err != nil {
			continue
		}
		for _, link := range doc.InternalLinks() {
			if len(discovered) >= limit {
				break
			}
			normalized := normalizeLink(link)
			if normalized == "" || seen[normalized] {
				continue
			}
			seen[normalized] = true
			discovered = append(discovered, normalized)
			queue = append(queue, queued{url: normalized, depth: item.depth + 1})
		}
	}

	f.logger.Info("fallback link discovery finished",
		slog.String("site", siteURL),
		slog.Int("urls", len(discovered)))
	return discovered
}

// normalizeLink strips fragments and rejects asset URLs. Returns ""
// for links the walk should ignore.
func normalizeLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	u.Fragment = ""

	lower := strings.ToLower(u.Path)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(lower, ext) {
			return ""
		}
	}
	return u.String()
}
