package bypass

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/brandlens/sitescan/internal/model"
)

// defaultCacheTTL bounds how long a chain outcome is reused. Long
// enough to cover one evaluation run end to end, short enough that a
// site recovering from an outage gets re-probed on the next run.
const defaultCacheTTL = 15 * time.Minute

// Engine runs the strategy chain for blocked URLs and caches outcomes
// per URL.
type Engine struct {
	strategies []Strategy
	logger     *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

type cacheEntry struct {
	result   *model.BypassResult
	cachedAt time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCacheTTL sets the per-URL result cache lifetime.
func WithCacheTTL(ttl time.Duration) EngineOption {
	return func(e *Engine) {
		if ttl > 0 {
			e.ttl = ttl
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine running the given strategies in order.
func NewEngine(strategies []Strategy, opts ...EngineOption) *Engine {
	e := &Engine{
		strategies: strategies,
		logger:     slog.Default(),
		cache:      make(map[string]cacheEntry),
		ttl:        defaultCacheTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultStrategies assembles the full chain in reliability order.
// lookup may be nil when no snapshot store is available; resolver nil
// uses the system resolver.
func DefaultStrategies(getter HTTPGetter, lookup SnapshotLookup, resolver Resolver) []Strategy {
	return []Strategy{
		NewCachedContentStrategy(lookup),
		NewArchiveStrategy(getter),
		NewSearchCacheStrategy(getter),
		NewSocialProfileStrategy(getter),
		NewDirectoryStrategy(getter),
		NewDNSStrategy(resolver),
		NewSyntheticStrategy(),
	}
}

// Attempt runs the chain for the target and returns the first
// successful result. Outcomes are cached per URL for the engine's TTL.
// With the synthetic strategy in the chain the returned result always
// has Success true; without it, an all-failures run returns a
// well-formed unsuccessful result.
func (e *Engine) Attempt(ctx context.Context, target Target) *model.BypassResult {
	if cached, ok := e.lookupCache(target.URL); ok {
		return cached
	}

	var last *model.BypassResult
	for _, strategy := range e.strategies {
		if ctx.Err() != nil {
			break
		}
		result, err := strategy.Attempt(ctx, target)
		if err != nil {
			e.logger.Debug("bypass strategy errored",
				slog.String("strategy", strategy.Name()),
				slog.String("url", target.URL),
				slog.String("error", err.Error()))
			continue
		}
		if result == nil {
			continue
		}
		last = result
		if result.Success {
			e.logger.Info("bypass succeeded",
				slog.String("strategy", strategy.Name()),
				slog.String("url", target.URL),
				slog.Bool("speculative", result.Speculative()))
			e.storeCache(target.URL, result)
			return result
		}
	}

	if last == nil {
		last = &model.BypassResult{Method: "none", RetrievedAt: e.now()}
	}
	e.storeCache(target.URL, last)
	return last
}

func (e *Engine) lookupCache(url string) (*model.BypassResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.cache[url]
	if !ok || e.now().Sub(entry.cachedAt) > e.ttl {
		return nil, false
	}
	return entry.result, true
}

func (e *Engine) storeCache(url string, result *model.BypassResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache[url] = cacheEntry{result: result, cachedAt: e.now()}
}
