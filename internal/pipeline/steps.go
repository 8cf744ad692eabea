package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/brandlens/sitescan/internal/bypass"
	"github.com/brandlens/sitescan/internal/config"
	"github.com/brandlens/sitescan/internal/crawler"
	"github.com/brandlens/sitescan/internal/extract"
	"github.com/brandlens/sitescan/internal/htmldoc"
	"github.com/brandlens/sitescan/internal/model"
	"github.com/brandlens/sitescan/internal/sitemap"
)

// Evidence confidence levels assigned by the steps. Page fetches are
// direct observation; a robots.txt that was never found only supports
// weak inference and is flagged speculative by the threshold.
const (
	confidencePageEnhanced  = 100
	confidencePageRescued   = 60
	confidenceSitemap       = 90
	confidenceRobotsFound   = 70
	confidenceRobotsMissing = 30
)

// RobotsStep fetches and summarizes robots.txt. Always succeeds: a
// missing file is evidence too.
type RobotsStep struct {
	getter  sitemap.Getter
	timeout time.Duration
	logger  *slog.Logger
}

// NewRobotsStep creates the robots analysis step.
func NewRobotsStep(getter sitemap.Getter, cfg *config.Config, logger *slog.Logger) *RobotsStep {
	return &RobotsStep{getter: getter, timeout: cfg.DiscoveryTimeout, logger: logger}
}

// Name returns the step name.
func (s *RobotsStep) Name() string { return "robots_analysis" }

// Do executes the robots analysis step.
func (s *RobotsStep) Do(ctx context.Context, report *model.CrawlReport) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	summary := sitemap.AnalyzeRobots(ctx, s.getter, report.WebsiteURL)

	confidence := float64(confidenceRobotsMissing)
	if summary.Found {
		confidence = confidenceRobotsFound
	}
	report.AddResult(model.CrawlResult{
		Kind:           model.EvidenceRobotsAnalysis,
		Score:          summary.BotFriendly,
		Confidence:     confidence,
		RobotsAnalysis: &model.RobotsAnalysisEvidence{Robots: summary},
	})

	s.logger.Debug("robots analyzed",
		slog.Bool("found", summary.Found),
		slog.Float64("bot_friendly", summary.BotFriendly))
	return nil
}

// DiscoverStep walks the sitemap tree and prioritizes discovered URLs.
// Finding no sitemap is not an error; the crawl step falls back to
// link walking in that case.
type DiscoverStep struct {
	getter  sitemap.Getter
	timeout time.Duration
	logger  *slog.Logger
}

// NewDiscoverStep creates the sitemap discovery step.
func NewDiscoverStep(getter sitemap.Getter, cfg *config.Config, logger *slog.Logger) *DiscoverStep {
	return &DiscoverStep{getter: getter, timeout: cfg.DiscoveryTimeout, logger: logger}
}

// Name returns the step name.
func (s *DiscoverStep) Name() string { return "sitemap_discovery" }

// Do executes the sitemap discovery step.
func (s *DiscoverStep) Do(ctx context.Context, report *model.CrawlReport) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := sitemap.NewDiscoverer(s.getter, s.logger).Discover(ctx, report.WebsiteURL, robotsSummary(report))
	if err != nil && len(data.URLs) == 0 {
		return err
	}
	report.SitemapsProcessed = data.SitemapCount
	if len(data.URLs) == 0 {
		return nil
	}

	sitemap.Prioritize(data, 0)

	score := float64(len(data.URLs))
	if score > 100 {
		score = 100
	}
	report.AddResult(model.CrawlResult{
		Kind:            model.EvidenceSitemapAnalysis,
		Score:           score,
		Confidence:      confidenceSitemap,
		SitemapAnalysis: &model.SitemapAnalysisEvidence{Sitemap: data},
	})
	return nil
}

// CrawlStep fetches pages and runs content extraction on each. URLs
// come from the prioritized sitemap when one was discovered, otherwise
// from a same-domain link walk. Pages that remain blocked after the
// session retry are handed to the bypass engine.
//
// Design decision: pages are fetched one at a time, in list order,
// because:
// 1. The session manager's request spacing only reads as organic
//    traffic when requests actually leave in sequence
// 2. The prioritizer's ordering (homepage first, then descending
//    value) is a guarantee, not a hint
// 3. One fetch at a time means session and report state need no
//    cross-goroutine coordination
// Concurrency lives at the batch level, across sites.
type CrawlStep struct {
	fetcher   *crawler.Fetcher
	extractor *extract.Engine
	bypasser  *bypass.Engine
	state     *PartialState
	logger    *slog.Logger

	crawlTimeout   time.Duration
	pageTimeout    time.Duration
	processTimeout time.Duration
	maxPages       int
	ignorePatterns []string
}

// NewCrawlStep creates the page crawl step.
func NewCrawlStep(fetcher *crawler.Fetcher, bypasser *bypass.Engine, state *PartialState, cfg *config.Config, logger *slog.Logger) *CrawlStep {
	return &CrawlStep{
		fetcher:        fetcher,
		extractor:      extract.NewEngine(),
		bypasser:       bypasser,
		state:          state,
		logger:         logger,
		crawlTimeout:   cfg.CrawlTimeout,
		pageTimeout:    cfg.PageTimeout,
		processTimeout: cfg.ProcessTimeout,
		maxPages:       cfg.MaxPages,
		ignorePatterns: cfg.IgnorePatterns,
	}
}

// Name returns the step name.
func (s *CrawlStep) Name() string { return "page_crawl" }

// Do executes the crawl step. A deadline expiring mid-list is
// reported as the context error so the orchestrator can downgrade the
// run to a partial result instead of calling it clean.
func (s *CrawlStep) Do(ctx context.Context, report *model.CrawlReport) error {
	ctx, cancel := context.WithTimeout(ctx, s.crawlTimeout)
	defer cancel()

	for _, pageURL := range s.targetURLs(ctx, report) {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, fetched := s.crawlOne(ctx, pageURL, report.BrandName)
		if result == nil {
			continue
		}
		report.AddResult(*result)
		if fetched {
			report.PagesCrawled++
			s.state.AddPage()
		}
	}
	return ctx.Err()
}

// targetURLs selects the crawl list: the prioritized sitemap URLs when
// discovery produced any, otherwise a bounded link walk from the
// homepage.
func (s *CrawlStep) targetURLs(ctx context.Context, report *model.CrawlReport) []string {
	if data := sitemapData(report); data != nil && len(data.URLs) > 0 {
		urls := make([]string, 0, s.maxPages)
		for _, u := range data.URLs {
			if len(urls) >= s.maxPages {
				break
			}
			if s.ignored(u.Loc) {
				continue
			}
			urls = append(urls, u.Loc)
		}
		return urls
	}
	s.logger.Info("no sitemap URLs, walking links from homepage",
		slog.String("site", report.WebsiteURL))

	walked := s.fetcher.DiscoverLinks(ctx, report.WebsiteURL, s.maxPages)
	urls := walked[:0]
	for _, u := range walked {
		if !s.ignored(u) {
			urls = append(urls, u)
		}
	}
	return urls
}

// ignored reports whether the URL matches a configured ignore pattern.
func (s *CrawlStep) ignored(url string) bool {
	for _, pattern := range s.ignorePatterns {
		if pattern != "" && strings.Contains(url, pattern) {
			return true
		}
	}
	return false
}

// crawlOne fetches and processes a single page. The returned bool is
// true when a page fetch succeeded (as opposed to bypass evidence for
// a blocked page). A nil result means the URL produced nothing usable.
func (s *CrawlStep) crawlOne(ctx context.Context, pageURL, brandName string) (*model.CrawlResult, bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.pageTimeout)
	defer cancel()

	page, err := s.fetcher.FetchPage(fetchCtx, pageURL)
	if err != nil {
		s.state.RecordError(err.Error())
		s.logger.Debug("page fetch failed", slog.String("url", pageURL), slog.String("error", err.Error()))
		return nil, false
	}

	if page.StatusCode == http.StatusForbidden {
		result := s.bypasser.Attempt(ctx, bypass.Target{URL: pageURL, BrandName: brandName})
		return &model.CrawlResult{
			Kind:       model.EvidenceBypassResult,
			Score:      result.Confidence,
			Confidence: result.Confidence,
			Bypass:     &model.BypassEvidence{Result: result},
		}, false
	}
	if page.StatusCode != http.StatusOK || !page.IsHTML() {
		return nil, false
	}

	evidence := &model.PageFetchEvidence{Page: page}
	confidence := float64(confidencePageRescued)
	score := 30.0

	if processed, ok := s.process(ctx, page, brandName); ok {
		page.Title = processed.title
		page.Description = processed.description
		page.Snapshot = processed.text
		page.TruncateSnapshot()
		page.Enhanced = true
		evidence.Extraction = processed.extraction
		confidence = confidencePageEnhanced
		if processed.extraction.Quality != nil {
			score = processed.extraction.Quality.Score
		}
	} else {
		// Processing timed out or the markup was unparseable; salvage
		// title and description with the regex rescue.
		rescueMeta(page)
	}

	return &model.CrawlResult{
		Kind:       model.EvidencePageFetch,
		Score:      score,
		Confidence: confidence,
		PageFetch:  evidence,
	}, true
}

type processedPage struct {
	title       string
	description string
	text        string
	extraction  *model.PageExtraction
}

// process parses and extracts one page under the processing budget.
// The work runs in its own goroutine so a pathological document cannot
// stall the crawl; on timeout the goroutine's eventual result is
// discarded.
func (s *CrawlStep) process(ctx context.Context, page *model.Page, brandName string) (*processedPage, bool) {
	done := make(chan *processedPage, 1)
	go func() {
		doc, err := htmldoc.Load(string(page.Raw), page.URL)
		if err != nil {
			done <- nil
			return
		}
		done <- &processedPage{
			title:       doc.Title(),
			description: doc.MetaDescription(),
			text:        doc.Text(),
			extraction:  s.extractor.Extract(doc, extract.Input{PageURL: page.URL, BrandName: brandName}),
		}
	}()

	select {
	case <-ctx.Done():
		return nil, false
	case <-time.After(s.processTimeout):
		s.logger.Warn("page processing timed out", slog.String("url", page.URL))
		return nil, false
	case processed := <-done:
		if processed == nil {
			return nil, false
		}
		return processed, true
	}
}

// robotsSummary returns the robots evidence collected earlier in the
// run, or nil.
func robotsSummary(report *model.CrawlReport) *model.RobotsSummary {
	for i := range report.Results {
		if report.Results[i].Kind == model.EvidenceRobotsAnalysis && report.Results[i].RobotsAnalysis != nil {
			return report.Results[i].RobotsAnalysis.Robots
		}
	}
	return nil
}

// sitemapData returns the sitemap evidence collected earlier in the
// run, or nil.
func sitemapData(report *model.CrawlReport) *model.SitemapData {
	for i := range report.Results {
		if report.Results[i].Kind == model.EvidenceSitemapAnalysis && report.Results[i].SitemapAnalysis != nil {
			return report.Results[i].SitemapAnalysis.Sitemap
		}
	}
	return nil
}
