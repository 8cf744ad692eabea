package bypass

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/brandlens/sitescan/internal/model"
)

// Per-strategy confidence. The ordering here is the chain order: a
// stored snapshot is near-authoritative, archived copies drift from
// the live site, and everything at or below directory lookups is
// inference the consumer must treat as speculative.
const (
	ConfidenceCachedContent = 90
	ConfidenceArchive       = 75
	ConfidenceSearchCache   = 60
	ConfidenceSocialProfile = 45
	ConfidenceDirectory     = 40
	ConfidenceDNSHeuristics = 25
	ConfidenceSynthetic     = 15
)

// Target identifies the site a strategy should recover data for.
type Target struct {
	// URL is the page the crawler failed to fetch.
	URL string
	// Domain is the site host; derived from URL when empty.
	Domain string
	// BrandName is the brand under analysis, used for profile and
	// directory probing.
	BrandName string
}

// Host returns the target's domain, deriving it from the URL when not
// set explicitly.
func (t Target) Host() string {
	if t.Domain != "" {
		return t.Domain
	}
	u, err := url.Parse(t.URL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// Slug returns a URL-path-safe identifier for the brand, falling back
// to the registrable part of the domain.
func (t Target) Slug() string {
	name := t.BrandName
	if name == "" {
		host := t.Host()
		name, _, _ = strings.Cut(host, ".")
	}
	name = strings.ToLower(strings.TrimSpace(name))
	name = nonSlugChars.ReplaceAllString(name, "-")
	return strings.Trim(name, "-")
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// HTTPGetter fetches a URL and returns its body and status code.
type HTTPGetter interface {
	Get(ctx context.Context, rawURL string) (body []byte, status int, err error)
}

// Strategy is one fallback data source. Attempt returns a result with
// Success false (or an error) when the source has nothing; the engine
// then moves on to the next strategy.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, target Target) (*model.BypassResult, error)
}

// newResult builds a successful result envelope for a strategy.
func newResult(method string, confidence float64) *model.BypassResult {
	return &model.BypassResult{
		Success:     true,
		Method:      method,
		Confidence:  confidence,
		Data:        make(map[string]string),
		RetrievedAt: time.Now(),
	}
}
