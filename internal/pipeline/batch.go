package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchProcessor runs a pipeline over multiple pages concurrently.
// Kept separate from Pipeline so single-page execution stays simple
// and batch strategy (concurrency, ordering) lives in one place.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline per page so no state
	// leaks between concurrently processed pages.
	pipelineFactory func() *Pipeline

	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of pages processed at once.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor with the given pipeline
// factory. Default concurrency is 3.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     3,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// Process executes the pipeline for every page, at most concurrency at
// a time. Each goroutine mutates only its own PageResult, so the input
// slice doubles as the result set and order is preserved by position.
//
// Page failures are recorded on the page, not returned: one stuck or
// broken page must not sink its batch siblings. The error return is
// reserved for context cancellation.
func (bp *BatchProcessor) Process(ctx context.Context, pages []*PageResult) error {
	bp.logger.Info("starting batch",
		"total_pages", len(pages),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, page := range pages {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				page.Err = ctx.Err()
				return ctx.Err()
			default:
			}

			bp.logger.Info("processing page",
				"url", page.URL,
				"index", i+1,
				"total", len(pages),
			)

			if err := bp.pipelineFactory().Execute(ctx, page); err != nil {
				bp.logger.Warn("page failed", "url", page.URL, "error", err)
				return nil
			}

			bp.logger.Debug("page completed", "url", page.URL)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch complete",
		"total_pages", len(pages),
		"elapsed", time.Since(startTime),
	)
	return err
}
