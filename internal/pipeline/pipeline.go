package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/formprint/internal/graph"
	"github.com/nao1215/formprint/internal/hierarchy"
	"github.com/nao1215/formprint/internal/model"
)

// Job carries one form through the pipeline. Print is the serializable
// result; the remaining fields are intermediate structures derived fresh for
// each form and discarded with the job.
type Job struct {
	// Print is the job's outcome, read by report writers and the archive.
	Print *model.PrintJob

	// Graph is the page graph built from the form.
	Graph *graph.Graph

	// Reachability holds the per-page reachability sets.
	Reachability graph.Reachability

	// Index maps each reachable page to its depth.
	Index hierarchy.Index
}

// NewJob wraps a print job for pipeline execution.
func NewJob(pj *model.PrintJob) *Job {
	return &Job{Print: pj}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the job
// populated by previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and the performed-step record
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the job to modify.
	// Returns an error if the step fails; non-fatal problems should be
	// recorded as job warnings and return nil.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, a default logger is created.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Failed steps are logged and their errors
// are recorded in the job, but subsequent steps still execute.
//
// The print stages each depend on the previous one, so the default
// pipeline never sets this; it is useful for custom steps that only
// inspect a form.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete (errors are recorded in the job).
// A job that fails never keeps a document: headings are only meaningful
// as a complete, consistently numbered set.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			p.fail(job, ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"form", job.Print.FormName,
		)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"form", job.Print.FormName,
				"source", job.Print.Source,
				"error", err,
			)

			p.fail(job, err)

			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"form", job.Print.FormName,
			)
		}

		job.Print.PerformedSteps = append(job.Print.PerformedSteps, step.Name())
	}

	return nil
}

// fail records err in the job and drops every partial result.
func (p *Pipeline) fail(job *Job, err error) {
	job.Print.Error = err
	job.Print.ErrorMessage = err.Error()
	job.Print.Depths = nil
	job.Print.Headers = nil
	job.Print.Document = nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
