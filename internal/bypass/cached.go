package bypass

import (
	"context"
	"strconv"
	"time"

	"github.com/brandlens/sitescan/internal/model"
)

// MethodCachedContent identifies results served from a stored snapshot.
// Consumers use it to flag a report as cache-derived.
const MethodCachedContent = "cached_content"

// SnapshotLookup finds previously stored HTML for a URL. The snapshot
// store satisfies this; ok is false when no snapshot exists.
type SnapshotLookup func(ctx context.Context, rawURL string) (html string, capturedAt time.Time, ok bool)

// CachedContentStrategy serves the most recent stored snapshot of the
// page. Strongest fallback available: it is the real page, just not
// the current one.
type CachedContentStrategy struct {
	lookup SnapshotLookup
}

// NewCachedContentStrategy creates the strategy around a snapshot
// lookup.
func NewCachedContentStrategy(lookup SnapshotLookup) *CachedContentStrategy {
	return &CachedContentStrategy{lookup: lookup}
}

// Name returns the strategy name.
func (s *CachedContentStrategy) Name() string { return MethodCachedContent }

// Attempt returns the stored snapshot when one exists.
func (s *CachedContentStrategy) Attempt(ctx context.Context, target Target) (*model.BypassResult, error) {
	if s.lookup == nil {
		return &model.BypassResult{Method: s.Name(), RetrievedAt: time.Now()}, nil
	}
	html, capturedAt, ok := s.lookup(ctx, target.URL)
	if !ok || html == "" {
		return &model.BypassResult{Method: s.Name(), RetrievedAt: time.Now()}, nil
	}

	result := newResult(s.Name(), ConfidenceCachedContent)
	result.HTML = html
	result.Data["captured_at"] = capturedAt.UTC().Format(time.RFC3339)
	result.Data["age_hours"] = strconv.Itoa(int(time.Since(capturedAt).Hours()))
	return result, nil
}
