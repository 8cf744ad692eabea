package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds one full evaluation run end to end. Every
	// phase inside the run has its own tighter budget, so hitting this
	// deadline means several phases already degraded; the orchestrator
	// then rescues whatever was collected.
	DefaultTimeout = 120 * time.Second

	// DefaultDiscoveryTimeout bounds robots.txt and sitemap discovery.
	// Discovery is a handful of small fetches; a site that cannot serve
	// its sitemap in this window is treated as having none.
	DefaultDiscoveryTimeout = 20 * time.Second

	// DefaultCrawlTimeout bounds the page-crawling phase as a whole.
	DefaultCrawlTimeout = 80 * time.Second

	// DefaultPageTimeout bounds one page's network fetch. Independent
	// from processing so a slow server can't consume the processing
	// budget too.
	DefaultPageTimeout = 15 * time.Second

	// DefaultProcessTimeout bounds HTML parsing and extraction for one
	// page. Pathological markup falls back to the regex rescue instead
	// of stalling the run.
	DefaultProcessTimeout = 5 * time.Second

	// DefaultMaxPages is the page budget per run. The prioritizer
	// orders URLs so the budget lands on the highest-value pages.
	DefaultMaxPages = 10

	// DefaultRequestInterval is the minimum spacing between requests to
	// one domain.
	DefaultRequestInterval = 1500 * time.Millisecond

	// AppName is the application name used for XDG directory paths.
	AppName = "sitescan"
)

// Config holds all configuration options for a sitescan run.
// This struct is designed to be populated from CLI flags and passed
// through the application via dependency injection rather than global
// state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant
// benefit.
type Config struct {
	// WebsiteURL is the root URL of the site to evaluate.
	WebsiteURL string

	// BrandName is the brand under analysis. When empty it is derived
	// from the page title or domain.
	BrandName string

	// EvaluationID identifies the run for the downstream scorer. When
	// empty a random identifier is generated.
	EvaluationID string

	// BrandID identifies the brand in the snapshot store. When empty
	// the domain is used.
	BrandID string

	// Timeout is the outer deadline for the whole run.
	Timeout time.Duration

	// DiscoveryTimeout bounds robots.txt and sitemap discovery.
	DiscoveryTimeout time.Duration

	// CrawlTimeout bounds the page-crawling phase.
	CrawlTimeout time.Duration

	// PageTimeout bounds one page's network fetch.
	PageTimeout time.Duration

	// ProcessTimeout bounds HTML parsing and extraction for one page.
	ProcessTimeout time.Duration

	// MaxPages is the page budget per run. Pages are fetched one at a
	// time in priority order; the session pacing only reads as one
	// visitor when requests leave in sequence.
	MaxPages int

	// RequestInterval is the minimum spacing between requests to one
	// domain.
	RequestInterval time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of the
	// human-readable format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report. When set, the
	// report is written to this file instead of stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .sitescan in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file.
	SiteConfigs *File

	// IgnorePatterns are URL substrings excluded from crawling, resolved
	// from the site configuration for the current target.
	IgnorePatterns []string

	// DBDir is the directory for the SQLite snapshot database. When
	// empty, snapshots and report history are not persisted.
	DBDir string

	// SaveToDB indicates whether to persist snapshots and the report.
	// Automatically set to true when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeouts, page
// budget). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:          DefaultTimeout,
		DiscoveryTimeout: DefaultDiscoveryTimeout,
		CrawlTimeout:     DefaultCrawlTimeout,
		PageTimeout:      DefaultPageTimeout,
		ProcessTimeout:   DefaultProcessTimeout,
		MaxPages:         DefaultMaxPages,
		RequestInterval:  DefaultRequestInterval,
	}
}

// XDGDataDir returns the XDG data directory for sitescan.
// On Linux: ~/.local/share/sitescan
// On macOS: ~/Library/Application Support/sitescan
// On Windows: %LOCALAPPDATA%\sitescan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitescan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for sitescan.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.WebsiteURL == "" {
		return ErrNoTarget
	}
	u, err := url.Parse(c.WebsiteURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.RequestInterval < 0 {
		return ErrInvalidRequestInterval
	}

	return nil
}

// Domain returns the bare host of the target URL, without a www prefix
// or port. Returns "" when the URL is invalid.
func (c *Config) Domain() string {
	u, err := url.Parse(c.WebsiteURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if len(host) > 4 && host[:4] == "www." {
		host = host[4:]
	}
	return host
}
