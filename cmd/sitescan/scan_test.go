package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brandlens/sitescan/internal/config"
	"github.com/brandlens/sitescan/internal/database"
	"github.com/brandlens/sitescan/internal/model"
)

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scan [website-url]" {
			t.Errorf("expected use 'scan [website-url]', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
	})

	t.Run("flag shorthands", func(t *testing.T) {
		t.Parallel()
		shorthands := map[string]string{
			"brand":     "b",
			"timeout":   "t",
			"max-pages": "p",
			"interval":  "i",
			"config":    "c",
			"json":      "j",
			"markdown":  "m",
			"output":    "o",
		}
		for name, want := range shorthands {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				t.Fatalf("expected %s flag", name)
			}
			if flag.Shorthand != want {
				t.Errorf("%s shorthand = %q, want %q", name, flag.Shorthand, want)
			}
		}
	})

	t.Run("has batch and no-db flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("batch") == nil {
			t.Error("expected batch flag")
		}
		if cmd.Flags().Lookup("no-db") == nil {
			t.Error("expected no-db flag")
		}
	})
}

// TestBuildConfig tests config construction from flags.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		cfg, batchSize, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("timeout = %v", cfg.Timeout)
		}
		if cfg.MaxPages != config.DefaultMaxPages {
			t.Errorf("max pages = %d", cfg.MaxPages)
		}
		if batchSize != 3 {
			t.Errorf("batch size = %d, want 3", batchSize)
		}
		if !cfg.SaveToDB || cfg.DBDir == "" {
			t.Error("expected persistence enabled by default")
		}
	})

	t.Run("flag overrides", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		for flag, value := range map[string]string{
			"brand":         "Acme",
			"evaluation-id": "eval-9",
			"brand-id":      "acme.example",
			"timeout":       "30s",
			"max-pages":     "7",
			"no-db":         "true",
			"json":          "true",
		} {
			if err := cmd.Flags().Set(flag, value); err != nil {
				t.Fatalf("failed to set %s: %v", flag, err)
			}
		}

		cfg, _, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.BrandName != "Acme" || cfg.EvaluationID != "eval-9" || cfg.BrandID != "acme.example" {
			t.Errorf("identity fields = %q/%q/%q", cfg.BrandName, cfg.EvaluationID, cfg.BrandID)
		}
		if cfg.Timeout != 30*time.Second {
			t.Errorf("timeout = %v", cfg.Timeout)
		}
		if cfg.MaxPages != 7 {
			t.Errorf("max pages = %d", cfg.MaxPages)
		}
		if cfg.SaveToDB {
			t.Error("no-db must disable persistence")
		}
		if !cfg.JSONReport {
			t.Error("expected JSON report enabled")
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "nope")); err != nil {
			t.Fatal(err)
		}
		if _, _, err := buildConfig(cmd); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})
}

// TestConfigForTarget tests per-site config resolution.
func TestConfigForTarget(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SiteConfigs = &config.File{
		Defaults: config.SiteConfig{MaxPages: 5},
		Sites: map[string]config.SiteConfig{
			"special.example": {
				MaxPages:       25,
				IgnorePatterns: []string{"/archive/"},
			},
		},
	}

	t.Run("site override wins", func(t *testing.T) {
		t.Parallel()

		siteCfg := configForTarget(cfg, "https://special.example")
		if siteCfg.MaxPages != 25 {
			t.Errorf("max pages = %d, want 25", siteCfg.MaxPages)
		}
		if len(siteCfg.IgnorePatterns) != 1 {
			t.Errorf("ignore patterns = %v", siteCfg.IgnorePatterns)
		}
	})

	t.Run("defaults apply to unknown site", func(t *testing.T) {
		t.Parallel()

		siteCfg := configForTarget(cfg, "https://unknown.example")
		if siteCfg.MaxPages != 5 {
			t.Errorf("max pages = %d, want 5", siteCfg.MaxPages)
		}
	})

	t.Run("template is not mutated", func(t *testing.T) {
		t.Parallel()

		_ = configForTarget(cfg, "https://special.example")
		if cfg.WebsiteURL != "" || cfg.MaxPages != config.DefaultMaxPages {
			t.Error("template config must stay untouched")
		}
	})
}

// TestOutputReport tests report writing to a file.
func TestOutputReport(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.ReportFile = filepath.Join(t.TempDir(), "nested", "report.json")
	cfg.JSONReport = true

	crawlReport := model.NewCrawlReport("https://example.com", "Example", "eval-1", "brand-1")
	crawlReport.Method = model.MethodFallback

	if err := outputReport(cfg, crawlReport); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(cfg.ReportFile)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	if !strings.Contains(string(data), "eval-1") {
		t.Error("expected report content in file")
	}

	info, err := os.Stat(cfg.ReportFile)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("report file mode = %v, want 0600", info.Mode().Perm())
	}
}

// TestPersistReport tests snapshot and report persistence.
func TestPersistReport(t *testing.T) {
	t.Parallel()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	crawlReport := model.NewCrawlReport("https://example.com", "Example", "eval-1", "brand-1")
	crawlReport.Method = model.MethodSitemapEnhanced
	page := &model.Page{URL: "https://example.com/", Raw: []byte("<html>hello</html>")}
	page.ComputeHash()
	crawlReport.AddResult(model.CrawlResult{
		Kind:       model.EvidencePageFetch,
		Confidence: 100,
		PageFetch:  &model.PageFetchEvidence{Page: page},
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := persistReport(context.Background(), db, crawlReport, logger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, err := db.LatestSnapshot(context.Background(), "brand-1", "https://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if snap == nil || snap.Hash != page.Hash {
		t.Error("expected stored snapshot with matching hash")
	}

	stored, err := db.GetLatestCrawlReport(context.Background(), "brand-1")
	if err != nil {
		t.Fatal(err)
	}
	if stored == nil || stored.EvaluationID != "eval-1" {
		t.Error("expected stored crawl report")
	}

	// nil database is a no-op
	if err := persistReport(context.Background(), nil, crawlReport, logger); err != nil {
		t.Errorf("nil db must be a no-op, got %v", err)
	}
}
