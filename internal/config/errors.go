package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no website URL is specified.
	ErrNoTarget = errors.New("no target specified: provide a website URL")

	// ErrInvalidTarget is returned when the website URL cannot be parsed
	// or lacks an http/https scheme.
	ErrInvalidTarget = errors.New("invalid target: must be an absolute http(s) URL")

	// ErrInvalidTimeout is returned when the overall timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidRequestInterval is returned when the request interval is
	// negative. Use 0 for the default pacing.
	ErrInvalidRequestInterval = errors.New("invalid request interval: must be non-negative")
)
