package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/brandlens/sitescan/internal/bypass"
	"github.com/brandlens/sitescan/internal/config"
	"github.com/brandlens/sitescan/internal/crawler"
	"github.com/brandlens/sitescan/internal/database"
	"github.com/brandlens/sitescan/internal/log"
	"github.com/brandlens/sitescan/internal/model"
	"github.com/brandlens/sitescan/internal/pipeline"
	"github.com/brandlens/sitescan/internal/report"
	"github.com/brandlens/sitescan/internal/session"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [website-url]",
		Short: "Evaluate a brand's website",
		Long: `Scan crawls a website and extracts content intelligence for brand
evaluation.

It discovers the site's sitemap (robots.txt declarations first, then
standard paths), prioritizes the discovered URLs by business value and
freshness, and crawls the highest-value pages within the page budget.
Each page is analyzed for SEO signals, accessibility, business facts,
contact channels, and content quality.

Blocked sites degrade through fingerprint rotation, archive lookups,
and public-trace inference before falling back to clearly-flagged
synthetic evidence.

Examples:
  # Evaluate a single site
  sitescan scan https://example.com

  # Evaluate several sites concurrently
  sitescan scan https://example.com https://other.example

  # Tie the run to an evaluation and brand
  sitescan scan --brand "Acme" --evaluation-id eval-123 https://acme.example

  # Output JSON report to a file
  sitescan scan --json -o report.json https://example.com

Configuration file (.sitescan) example:
  defaults:
    maxPages: 10
  sites:
    example.com:
      maxPages: 25
      headers:
        X-Client: partner-crawler
    other.example:
      ignorePatterns:
        - /archive/`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Run identity flags
	cmd.Flags().StringP("brand", "b", "", "Brand name under evaluation")
	cmd.Flags().String("evaluation-id", "", "Evaluation identifier for the downstream scorer")
	cmd.Flags().String("brand-id", "", "Brand identifier for the snapshot store")

	// Crawl behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Outer deadline for each site's evaluation")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per site")
	cmd.Flags().DurationP("interval", "i", config.DefaultRequestInterval,
		"Minimum spacing between requests to one domain")

	// Batch evaluation flags
	cmd.Flags().Int("batch", 3, "Number of sites evaluated concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitescan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().Bool("no-db", false,
		"Skip persisting snapshots and report history")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, batchSize, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("no targets provided (specify one or more website URLs as arguments)")
	}

	// Set up structured logging with credential sanitization
	verbose := getVerboseFlag(cmd)
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, args, batchSize, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags. The returned
// config is the template for each target; per-site values are resolved
// in configForTarget.
func buildConfig(cmd *cobra.Command) (*config.Config, int, error) {
	cfg := config.NewConfig()

	var err error

	cfg.BrandName, err = cmd.Flags().GetString("brand")
	if err != nil {
		return nil, 0, err
	}
	cfg.EvaluationID, err = cmd.Flags().GetString("evaluation-id")
	if err != nil {
		return nil, 0, err
	}
	cfg.BrandID, err = cmd.Flags().GetString("brand-id")
	if err != nil {
		return nil, 0, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, 0, err
	}
	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, 0, err
	}
	cfg.RequestInterval, err = cmd.Flags().GetDuration("interval")
	if err != nil {
		return nil, 0, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, 0, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, 0, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, 0, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, 0, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, 0, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, 0, err
	}
	if !noDB {
		cfg.SaveToDB = true
		cfg.DBDir = config.XDGDataDir()
	}

	batchSize, err := cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, 0, err
	}

	return cfg, batchSize, nil
}

// runScan executes the evaluation for all targets.
func runScan(ctx context.Context, cfg *config.Config, targets []string, batchSize int, logger *slog.Logger) error {
	logger.Info("starting scan",
		"targets", targets,
		"batchSize", batchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open the snapshot store if persistence is enabled
	var db *database.SnapshotDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Validate each target against the template config up front
	for _, target := range targets {
		siteCfg := configForTarget(cfg, target)
		if err := siteCfg.Validate(); err != nil {
			return fmt.Errorf("invalid target %q: %w", target, err)
		}
	}

	if len(targets) > 1 && batchSize > 1 {
		return runBatchScan(ctx, cfg, targets, batchSize, db, logger)
	}
	return runSequentialScan(ctx, cfg, targets, db, logger)
}

// runSequentialScan evaluates targets one at a time.
func runSequentialScan(ctx context.Context, cfg *config.Config, targets []string, db *database.SnapshotDB, logger *slog.Logger) error {
	for _, target := range targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		siteCfg := configForTarget(cfg, target)
		orchestrator := createOrchestrator(siteCfg, db, logger)

		fmt.Printf("Evaluating %s...\n", target)
		startTime := time.Now()

		crawlReport := orchestrator.Run(ctx)

		fmt.Printf("Evaluation completed in %s (method: %s)\n\n",
			time.Since(startTime).Round(time.Millisecond), crawlReport.Method)

		if err := outputReport(siteCfg, crawlReport); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}
		if err := persistReport(ctx, db, crawlReport, logger); err != nil {
			logger.Error("failed to persist report", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchScan evaluates multiple targets concurrently using BatchProcessor.
func runBatchScan(ctx context.Context, cfg *config.Config, targets []string, batchSize int, db *database.SnapshotDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch evaluation of %d targets (concurrency: %d)...\n\n",
		len(targets), batchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func(siteURL string) *pipeline.Orchestrator {
			return createOrchestrator(configForTarget(cfg, siteURL), db, logger)
		},
		pipeline.WithBatchConcurrency(batchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, targets, func(crawlReport *model.CrawlReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Evaluation completed: %s (method: %s)\n",
			index+1, len(targets), crawlReport.WebsiteURL, crawlReport.Method)

		if err := outputReport(cfg, crawlReport); err != nil {
			logger.Error("report failed", "target", crawlReport.WebsiteURL, "error", err)
		}
		if err := persistReport(ctx, db, crawlReport, logger); err != nil {
			logger.Error("failed to persist report", "target", crawlReport.WebsiteURL, "error", err)
		}
	})

	fmt.Printf("\nBatch evaluation completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	return err
}

// configForTarget clones the template config for one target and resolves
// its site-specific overrides.
func configForTarget(cfg *config.Config, target string) *config.Config {
	siteCfg := *cfg
	siteCfg.WebsiteURL = target

	sc := cfg.SiteConfigs.GetSiteConfig(siteCfg.Domain())
	if sc.MaxPages > 0 {
		siteCfg.MaxPages = sc.MaxPages
	}
	siteCfg.IgnorePatterns = sc.IgnorePatterns

	return &siteCfg
}

// createOrchestrator assembles the full component stack for one site.
func createOrchestrator(cfg *config.Config, db *database.SnapshotDB, logger *slog.Logger) *pipeline.Orchestrator {
	sessions := session.NewManager(
		session.WithRequestInterval(cfg.RequestInterval),
		session.WithLogger(logger),
	)

	fetcherOpts := []crawler.FetcherOption{crawler.WithLogger(logger)}
	if sc := cfg.SiteConfigs.GetSiteConfig(cfg.Domain()); len(sc.Headers) > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithExtraHeaders(sc.Headers))
	}
	fetcher := crawler.NewFetcher(sessions, fetcherOpts...)

	// Stored snapshots are the strongest fallback for blocked pages.
	var lookup bypass.SnapshotLookup
	if db != nil {
		brandID := cfg.BrandID
		if brandID == "" {
			brandID = cfg.Domain()
		}
		lookup = func(ctx context.Context, rawURL string) (string, time.Time, bool) {
			snap, err := db.LatestSnapshot(ctx, brandID, rawURL)
			if err != nil || snap == nil {
				return "", time.Time{}, false
			}
			return snap.Content, snap.CapturedAt, true
		}
	}
	bypasser := bypass.NewEngine(
		bypass.DefaultStrategies(fetcher, lookup, nil),
		bypass.WithLogger(logger),
	)

	return pipeline.NewOrchestrator(cfg, fetcher, bypasser, logger)
}

// outputReport outputs the crawl report in the requested format.
func outputReport(cfg *config.Config, crawlReport *model.CrawlReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports carry extracted contact data; owner-only permissions.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.Write(crawlReport)
	return err
}

// persistReport saves page snapshots and the report to the store.
// If db is nil, this function is a no-op.
func persistReport(ctx context.Context, db *database.SnapshotDB, crawlReport *model.CrawlReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	for _, ev := range crawlReport.PageResults() {
		page := ev.Page
		if page.Hash == "" || len(page.Raw) == 0 {
			continue
		}
		saved, err := db.SaveSnapshot(ctx, crawlReport.BrandID, page.URL, string(page.Raw), page.Hash)
		if err != nil {
			logger.Error("failed to save snapshot", "url", page.URL, "error", err)
			continue
		}
		if saved {
			logger.Debug("snapshot saved", "url", page.URL)
		}
	}

	if err := db.SaveCrawlReport(ctx, crawlReport); err != nil {
		return fmt.Errorf("failed to save crawl report: %w", err)
	}

	logger.Info("crawl report saved to database",
		"brand_id", crawlReport.BrandID,
		"evaluation_id", crawlReport.EvaluationID)
	return nil
}
