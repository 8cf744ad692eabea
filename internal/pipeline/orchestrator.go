package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/brandlens/sitescan/internal/bypass"
	"github.com/brandlens/sitescan/internal/config"
	"github.com/brandlens/sitescan/internal/crawler"
	"github.com/brandlens/sitescan/internal/model"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// rescueTimeout bounds the synthetic-evidence fallback that runs after
// the outer deadline has already expired.
const rescueTimeout = 10 * time.Second

// Orchestrator assembles the standard pipeline for one site and
// guarantees a well-formed report for every invocation.
//
// Design decision: Run never returns an error because:
// 1. The downstream evaluator needs a result for every brand, always
// 2. Failures degrade the method (partial, intelligent-fallback), they
//    don't abort the run
// 3. Diagnostics travel in the report itself (ErrorMessage, TimedOut)
type Orchestrator struct {
	cfg      *config.Config
	fetcher  *crawler.Fetcher
	bypasser *bypass.Engine
	state    *PartialState
	logger   *slog.Logger
}

// NewOrchestrator creates an orchestrator for the given configuration.
func NewOrchestrator(cfg *config.Config, fetcher *crawler.Fetcher, bypasser *bypass.Engine, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:      cfg,
		fetcher:  fetcher,
		bypasser: bypasser,
		state:    NewPartialState(),
		logger:   logger,
	}
}

// Run executes a full evaluation crawl and returns the report. The
// report is always well-formed: identifiers are filled in, a method is
// always set, and a run that collected nothing still carries synthetic
// evidence.
func (o *Orchestrator) Run(ctx context.Context) *model.CrawlReport {
	o.state.Reset()

	report := model.NewCrawlReport(o.cfg.WebsiteURL, o.cfg.BrandName, o.cfg.EvaluationID, o.cfg.BrandID)
	if report.EvaluationID == "" {
		report.EvaluationID = uuid.NewString()
	}
	if report.BrandID == "" {
		report.BrandID = o.cfg.Domain()
	}
	if report.BrandName == "" {
		report.BrandName = brandFromDomain(o.cfg.Domain())
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	p := New(WithLogger(o.logger), WithContinueOnError(true))
	p.AddSteps(
		NewRobotsStep(o.fetcher, o.cfg, o.logger),
		NewDiscoverStep(o.fetcher, o.cfg, o.logger),
		NewCrawlStep(o.fetcher, o.bypasser, o.state, o.cfg, o.logger),
	)

	err := p.Execute(ctx, report)
	report.Elapsed = time.Since(report.StartedAt)

	// Execute only notices expiry between steps; a deadline that dies
	// inside the crawl phase must still downgrade the run.
	if ctx.Err() != nil {
		report.TimedOut = true
	}

	for _, name := range report.PerformedSteps {
		o.state.MarkPhase(name)
	}

	o.finalize(report, err)

	o.logger.Info("crawl finished",
		slog.String("site", report.WebsiteURL),
		slog.String("method", string(report.Method)),
		slog.Int("pages", report.PagesCrawled),
		slog.Int("results", len(report.Results)),
		slog.Duration("elapsed", report.Elapsed))
	return report
}

// finalize determines the crawl method and rescues degraded runs. A
// step failure recorded in ErrorMessage (a phase deadline, typically)
// disqualifies the run from a clean method even when the pipeline
// itself kept going.
func (o *Orchestrator) finalize(report *model.CrawlReport, runErr error) {
	clean := runErr == nil && !report.TimedOut && report.ErrorMessage == ""

	switch {
	case report.PagesCrawled > 0 && clean:
		if sitemapData(report) != nil {
			report.Method = model.MethodSitemapEnhanced
		} else {
			report.Method = model.MethodFallback
		}

	case report.PagesCrawled > 0:
		// The run died mid-flight but pages made it in. Keep what we
		// have and flag the report so consumers weight it accordingly.
		report.Method = model.MethodPartial
		report.PartialCrawl = true
		o.logger.Warn("run rescued with partial data",
			slog.String("site", report.WebsiteURL),
			slog.Int("pages", report.PagesCrawled),
			slog.Int("phases", len(o.state.Phases())),
			slog.Int("errors", len(o.state.Errors())))

	default:
		report.Method = model.MethodIntelligentFallback
		report.PartialCrawl = true
		o.synthesize(report)
	}

	if report.ErrorMessage == "" {
		if errs := o.state.Errors(); len(errs) > 0 {
			report.ErrorMessage = errs[0]
		}
	}

	for i := range report.Results {
		b := report.Results[i].Bypass
		if b != nil && b.Result != nil && b.Result.Method == bypass.MethodCachedContent {
			report.FromCache = true
			break
		}
	}
}

// synthesize runs the fallback-strategy chain so a zero-data run still
// yields evidence. Uses a fresh context: the run's own deadline is
// typically the reason we are here.
func (o *Orchestrator) synthesize(report *model.CrawlReport) {
	for i := range report.Results {
		if report.Results[i].Kind == model.EvidenceBypassResult {
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), rescueTimeout)
	defer cancel()

	result := o.bypasser.Attempt(ctx, bypass.Target{
		URL:       report.WebsiteURL,
		Domain:    o.cfg.Domain(),
		BrandName: report.BrandName,
	})
	report.AddResult(model.CrawlResult{
		Kind:       model.EvidenceBypassResult,
		Score:      result.Confidence,
		Confidence: result.Confidence,
		Bypass:     &model.BypassEvidence{Result: result},
	})
}

// brandFromDomain derives a display brand name from a bare domain,
// e.g. "acme-corp.example.com" becomes "Acme Corp".
func brandFromDomain(domain string) string {
	label, _, _ := strings.Cut(domain, ".")
	label = strings.ReplaceAll(label, "-", " ")
	if label == "" {
		return domain
	}
	return cases.Title(language.English).String(label)
}
