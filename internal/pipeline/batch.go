package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/brandlens/sitescan/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor evaluates multiple sites concurrently.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Orchestrator because:
// 1. It keeps the Orchestrator focused on single-site execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// orchestratorFactory creates a fresh orchestrator for each site.
	// A factory ensures partial state never leaks between runs and
	// allows per-site configuration (page budgets, headers).
	orchestratorFactory func(siteURL string) *Orchestrator

	// concurrency is the maximum number of sites evaluated at once.
	concurrency int

	logger *slog.Logger

	// results stores completed reports, indexed by input position.
	results []*model.CrawlReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithBatchConcurrency sets the maximum number of concurrent site
// evaluations. Default is 3: per-site crawls already fan out
// internally, and every extra site multiplies outbound request volume.
func WithBatchConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. The factory is called
// once per site with the site's URL.
func NewBatchProcessor(factory func(siteURL string) *Orchestrator, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		orchestratorFactory: factory,
		concurrency:         3,
		results:             make([]*model.CrawlReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch evaluates multiple sites concurrently, respecting the
// concurrency limit and context cancellation.
//
// Returns all reports collected, ordered like the input. Sites whose
// evaluation was cancelled before starting have a nil slot. The error
// return indicates cancellation; individual site failures are recorded
// inside their reports.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, sites []string) ([]*model.CrawlReport, error) {
	bp.logger.Info("starting batch processing",
		"total_sites", len(sites),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.results = make([]*model.CrawlReport, len(sites))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, site := range sites {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("evaluating site",
				"site", site,
				"index", i+1,
				"total", len(sites),
			)

			report := bp.orchestratorFactory(site).Run(ctx)

			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_sites", len(sites),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback evaluates multiple sites and calls the
// callback for each completed report. Useful for streaming results to
// a writer as they finish.
//
// The callback runs on the goroutine that completed the site, so it
// must be safe for concurrent use if it touches shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	sites []string,
	callback func(report *model.CrawlReport, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_sites", len(sites),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, site := range sites {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := bp.orchestratorFactory(site).Run(ctx)
			callback(report, i)

			return nil
		})
	}

	return g.Wait()
}
