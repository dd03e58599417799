package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YanFonsecaz/SiteAI/internal/anchor"
	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// PageResult accumulates one source page's state as it moves through
// the steps: fetched content first, then classification, then raw
// model candidates, then the validated opportunity list.
type PageResult struct {
	// URL is the page under processing.
	URL string

	// Targets are the link destinations proposed against. Empty during
	// the preparation phase; set before the proposal phase runs.
	Targets []model.TargetDescriptor

	// MaxAnchors caps the opportunities kept for this page.
	MaxAnchors int

	// Content is the fetched and cleaned page. Set by the fetch step.
	Content *model.ExtractedContent

	// Analysis is the page classification, nil when classification
	// failed or has not run.
	Analysis *model.ContentAnalysis

	// Candidates are the raw, untrusted model proposals.
	Candidates []anchor.Candidate

	// Opportunities is the validated, page-local opportunity list.
	Opportunities []model.AnchorOpportunity

	// Diagnostics collects non-fatal observations: tier escalations,
	// enrichment failures, validator rejections.
	Diagnostics []string

	// ExecutedSteps lists the steps that ran, in order.
	ExecutedSteps []string

	// Err is the first critical failure. A page with Err set was not
	// fully processed and contributes no opportunities.
	Err error
}

// NewPageResult creates an empty result for one source page.
func NewPageResult(url string) *PageResult {
	return &PageResult{URL: url}
}

// Failed reports whether a critical step failed for this page.
func (r *PageResult) Failed() bool {
	return r.Err != nil
}

// AddDiagnostic appends a formatted diagnostic line.
func (r *PageResult) AddDiagnostic(format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, fmt.Sprintf(format, args...))
}

// Step is one stage of per-page processing. Steps run in sequence,
// each receiving the result accumulated by its predecessors.
//
// An error return marks the page as failed; recoverable problems are
// recorded as diagnostics on the result instead.
type Step interface {
	// Do executes the step against the accumulated page result.
	Do(ctx context.Context, result *PageResult) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline executes an ordered list of steps against one page.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError keeps executing steps after a failure. Off by
	// default: a failed fetch leaves nothing for later steps to work on.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps the pipeline running after a step fails.
// The failure is still recorded on the page result.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline. Add steps with AddSteps.
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

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence against the page result.
// Cancellation is checked between steps; steps bound their own model
// and network calls.
//
// The first critical error is recorded on the result and returned,
// unless continueOnError is set.
func (p *Pipeline) Execute(ctx context.Context, result *PageResult) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"url", result.URL,
				"reason", ctx.Err(),
			)
			result.Err = ctx.Err()
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step", "step", step.Name(), "url", result.URL)

		if err := step.Do(ctx, result); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"url", result.URL,
				"error", err,
			)
			result.Err = err
			if !p.continueOnError {
				return err
			}
		}

		result.ExecutedSteps = append(result.ExecutedSteps, step.Name())
	}
	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the steps' names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
