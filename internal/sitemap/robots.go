package sitemap

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/brandlens/sitescan/internal/model"
)

// Getter fetches a URL and returns its body and HTTP status. The
// crawler's fetcher satisfies this; tests substitute a stub.
type Getter interface {
	Get(ctx context.Context, rawURL string) (body []byte, status int, err error)
}

// Bot-friendliness scoring. robots.txt is a secondary signal only: a
// hostile file lowers the score but never blocks the crawl, because
// the analysis target is the brand's public site, not arbitrary hosts.
const (
	robotsBaseScore        = 100.0
	robotsMissingScore     = 50.0
	disallowPenaltyEach    = 2.0
	disallowPenaltyCap     = 40.0
	crawlDelayPenalty      = 10.0
	crawlDelaySlowPenalty  = 20.0
	crawlDelaySlowSeconds  = 10.0
	blanketDisallowPenalty = 30.0
)

// AnalyzeRobots fetches and summarizes robots.txt for the site. A
// missing or unreachable file yields a not-found summary with a
// neutral score, never an error: absence of robots.txt is itself a
// data point.
func AnalyzeRobots(ctx context.Context, getter Getter, siteURL string) *model.RobotsSummary {
	body, status, err := getter.Get(ctx, strings.TrimRight(siteURL, "/")+"/robots.txt")
	if err != nil || status != http.StatusOK {
		return &model.RobotsSummary{Found: false, BotFriendly: robotsMissingScore}
	}
	return ParseRobots(string(body))
}

// ParseRobots summarizes a robots.txt body. Only directives in the
// wildcard group and Sitemap lines (which are group-independent per
// the protocol) are considered; per-bot groups for other crawlers do
// not affect us.
func ParseRobots(body string) *model.RobotsSummary {
	summary := &model.RobotsSummary{Found: true}

	inWildcardGroup := false
	blanketDisallow := false
	for _, line := range strings.Split(body, "\n") {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		directive, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		directive = strings.ToLower(strings.TrimSpace(directive))
		value = strings.TrimSpace(value)

		switch directive {
		case "user-agent":
			inWildcardGroup = value == "*"
		case "sitemap":
			if value != "" {
				summary.SitemapURLs = append(summary.SitemapURLs, value)
			}
		case "disallow":
			if !inWildcardGroup || value == "" {
				continue
			}
			summary.DisallowCount++
			if value == "/" {
				blanketDisallow = true
			}
		case "crawl-delay":
			if !inWildcardGroup {
				continue
			}
			if delay, err := strconv.ParseFloat(value, 64); err == nil && delay > 0 {
				summary.CrawlDelay = delay
			}
		}
	}

	score := robotsBaseScore
	penalty := disallowPenaltyEach * float64(summary.DisallowCount)
	if penalty > disallowPenaltyCap {
		penalty = disallowPenaltyCap
	}
	score -= penalty
	if summary.CrawlDelay > crawlDelaySlowSeconds {
		score -= crawlDelaySlowPenalty
	} else if summary.CrawlDelay > 0 {
		score -= crawlDelayPenalty
	}
	if blanketDisallow {
		score -= blanketDisallowPenalty
	}
	if score < 0 {
		score = 0
	}
	summary.BotFriendly = score

	return summary
}
