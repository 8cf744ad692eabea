package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/brandlens/sitescan/internal/model"
)

// Step is one phase of a crawl run. Steps execute in sequence and
// enrich the shared report as they go.
//
// Design decision: steps are an interface rather than funcs because:
// 1. Each phase carries its own timeouts and collaborators
// 2. Name() gives logs and the report a stable phase identity
// 3. New phases slot in without touching the runner
type Step interface {
	// Do runs the phase against the accumulated report. An error return
	// means the phase failed outright; recoverable problems should go
	// into the report and return nil.
	Do(ctx context.Context, report *model.CrawlReport) error

	// Name identifies the phase in logs and in PerformedSteps.
	Name() string
}

// Pipeline runs an ordered list of steps against one report.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError keeps the run going past a failed step. The zero
	// value stops at the first failure.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps executing after a step fails; the failure
// is logged and recorded in the report. The crawl run wants this
// behavior: a missing sitemap must not prevent crawling, and a failed
// crawl must not prevent the fallback phase.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline; add steps with AddStep or AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends one step. Execution order is insertion order.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps at once.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps in order against the report.
//
// Cancellation is checked between steps, not during: each step owns
// its phase timeout and is expected to honor ctx itself. When the
// outer context dies the report is marked timed out and the context
// error is returned regardless of the error policy.
func (p *Pipeline) Execute(ctx context.Context, report *model.CrawlReport) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				slog.String("step", step.Name()),
				slog.String("reason", err.Error()))
			report.TimedOut = true
			return err
		}

		started := time.Now()
		err := step.Do(ctx, report)
		if err != nil {
			p.logger.Error("step failed",
				slog.String("step", step.Name()),
				slog.String("site", report.WebsiteURL),
				slog.String("error", err.Error()))
			report.ErrorMessage = err.Error()
			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				slog.String("step", step.Name()),
				slog.String("site", report.WebsiteURL),
				slog.Duration("elapsed", time.Since(started)))
		}

		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}
	return nil
}

// StepCount returns the number of configured steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
