package downloader

import (
	"context"

	"golang.org/x/sync/errgroup"

	"everia/pkg/logger"
	"everia/pkg/models"
)

// PostProcessor downloads everything belonging to one post
type PostProcessor interface {
	DownloadPost(ctx context.Context, post models.Post) error
}

// WorkerPool drains a fixed list of posts with a fixed number of workers
type WorkerPool struct {
	numWorkers int
	processor  PostProcessor
	reporter   Reporter
	logger     logger.Logger
}

// NewWorkerPool creates a pool of numWorkers workers (at least one)
func NewWorkerPool(numWorkers int, processor PostProcessor, reporter Reporter, log logger.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
		processor:  processor,
		reporter:   reporter,
		logger:     log.WithField("component", "worker_pool"),
	}
}

// Run hands every post to exactly one worker and returns once all workers
// have exited. Post failures are logged and never stop the pool.
func (wp *WorkerPool) Run(ctx context.Context, posts []models.Post) {
	queue := make(chan models.Post, len(posts))
	for _, post := range posts {
		queue <- post
	}
	close(queue)

	logger.LogComponentStart(wp.logger, "worker_pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
		"posts":       len(posts),
	})

	var g errgroup.Group
	for i := 0; i < wp.numWorkers; i++ {
		i := i
		g.Go(func() error {
			wp.worker(ctx, i, queue)
			return nil
		})
	}
	_ = g.Wait()

	reason := "queue drained"
	if ctx.Err() != nil {
		reason = "cancelled"
	}
	logger.LogComponentStop(wp.logger, "worker_pool", reason)
}

// GetActiveWorkers returns the number of workers Run starts
func (wp *WorkerPool) GetActiveWorkers() int {
	return wp.numWorkers
}

func (wp *WorkerPool) worker(ctx context.Context, id int, queue <-chan models.Post) {
	wp.logger.DebugWithFields("Worker started", map[string]interface{}{
		"worker_id": id,
	})

	for post := range queue {
		if ctx.Err() != nil {
			wp.logger.DebugWithFields("Worker stopping - context cancelled", map[string]interface{}{
				"worker_id": id,
			})
			return
		}

		wp.reporter.PostStarted(post, len(queue))

		err := wp.processor.DownloadPost(ctx, post)
		if err != nil && ctx.Err() == nil {
			wp.logger.WithError(err).WarnWithFields("Worker skipped post", map[string]interface{}{
				"worker_id": id,
				"post":      string(post),
			})
		}

		wp.reporter.PostFinished(post, len(queue), err)
	}

	wp.logger.DebugWithFields("Worker stopping - queue drained", map[string]interface{}{
		"worker_id": id,
	})
}
