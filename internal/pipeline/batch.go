package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/formprint/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor handles concurrent printing of multiple forms.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-form execution
// 2. Each form gets its own pipeline and job, so no state crosses forms
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each form.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of forms printed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed print jobs.
	// Access is synchronized via mutex.
	results []*model.PrintJob
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

// WithConcurrency sets the maximum number of concurrent forms.
// Default is 10 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each form to create a fresh
// pipeline instance.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     10,
		results:         make([]*model.PrintJob, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch prints multiple forms concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Returns every job in input order, including failed ones; a failed job
// carries its error. The error return is only set when the batch was
// cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, jobs []*model.PrintJob) ([]*model.PrintJob, error) {
	bp.logger.Info("starting batch processing",
		"total_forms", len(jobs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.results = make([]*model.PrintJob, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, pj := range jobs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Debug("printing form",
				"source", pj.Source,
				"index", i+1,
				"total", len(jobs),
			)

			err := bp.pipelineFactory().Execute(ctx, NewJob(pj))

			bp.mu.Lock()
			bp.results[i] = pj
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("print failed",
					"source", pj.Source,
					"error", err,
				)
				// The error is recorded in the job; other forms continue.
				return nil
			}

			bp.logger.Debug("print completed",
				"form", pj.FormName,
			)

			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_forms", len(jobs),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback prints multiple forms and calls a callback for
// each completed job. This is useful for streaming output.
//
// The callback receives the job and its index in the original slice. It is
// called from the goroutine that completed the job, so it must be safe for
// concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	jobs []*model.PrintJob,
	callback func(job *model.PrintJob, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_forms", len(jobs),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, pj := range jobs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			_ = bp.pipelineFactory().Execute(ctx, NewJob(pj)) //nolint:errcheck // Error is stored in job

			callback(pj, i)

			return nil
		})
	}

	return g.Wait()
}
