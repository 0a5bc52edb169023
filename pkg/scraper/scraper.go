package scraper

import (
	"context"
	"time"

	"everia/internal/downloader"
	"everia/pkg/config"
	"everia/pkg/crawler"
	"everia/pkg/fetch"
	"everia/pkg/logger"
	"everia/pkg/models"
	"everia/pkg/storage"
	"everia/pkg/ui"
)

// Summary describes the outcome of one run
type Summary struct {
	OutputDir     string
	Pages         int
	Posts         int
	PostsFailed   int
	ImagesWritten int
	ImagesDropped int
	Retries       int
	Elapsed       time.Duration
}

// Scraper orchestrates discovery and download for one site
type Scraper struct {
	site           *models.Site
	client         PageFetcher
	storageManager *storage.Manager
	tracker        *ui.StatusTracker
	console        *ui.Console
	logger         logger.Logger
}

// Option customises a Scraper
type Option func(*Scraper)

// WithFetcher replaces the HTTP client
func WithFetcher(f PageFetcher) Option {
	return func(s *Scraper) { s.client = f }
}

// WithConsole sets where progress lines are printed. Without a console the
// run is silent apart from logging.
func WithConsole(c *ui.Console) Option {
	return func(s *Scraper) { s.console = c }
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// New creates a Scraper for site. cfg supplies the request timeout and
// default headers of the HTTP client.
func New(site *models.Site, cfg *config.Config, opts ...Option) *Scraper {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	s := &Scraper{
		site:           site,
		storageManager: storage.NewManager(site.OutputDir),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.GetLogger()
	}
	if s.client == nil {
		s.client = fetch.NewClient(cfg.Download.RequestTimeout, cfg.HTTP, s.logger)
	}
	s.tracker = ui.NewStatusTracker(s.console)

	return s
}

// Download walks the listing, then downloads every discovered post with
// the configured worker pool. Failures below the run level are absorbed;
// the returned summary tells what happened.
func (s *Scraper) Download(ctx context.Context) Summary {
	s.logger.InfoWithFields("Starting crawl", map[string]interface{}{
		"url":     s.site.ListingURL.String(),
		"output":  s.site.OutputDir,
		"workers": s.site.Workers,
		"retry":   s.site.Retry,
	})
	if s.console != nil {
		s.console.PrintInfo("Output", s.site.OutputDir)
	}

	walker := crawler.NewWalker(s.site, s.client, s.tracker, s.logger)
	posts := walker.CollectPosts(ctx)

	s.logger.InfoWithFields("Listing walk finished", map[string]interface{}{
		"posts": len(posts),
	})

	postDownloader := downloader.NewPostDownloader(
		s.client,
		s.storageManager,
		s.site.Retry,
		s.site.RetryDelay,
		s.tracker,
		s.logger,
	)
	pool := downloader.NewWorkerPool(s.site.Workers, postDownloader, s.tracker, s.logger)
	pool.Run(ctx, posts)

	s.tracker.PrintSummary()

	stats := s.tracker.Snapshot()
	summary := Summary{
		OutputDir:     s.site.OutputDir,
		Pages:         stats.Pages,
		Posts:         len(posts),
		PostsFailed:   stats.PostsFailed,
		ImagesWritten: stats.ImagesWritten,
		ImagesDropped: stats.ImagesDropped,
		Retries:       stats.Retries,
		Elapsed:       stats.Elapsed,
	}

	s.logger.InfoWithFields("Crawl finished", map[string]interface{}{
		"workers":        pool.GetActiveWorkers(),
		"posts":          summary.Posts,
		"posts_failed":   summary.PostsFailed,
		"images_written": summary.ImagesWritten,
		"images_dropped": summary.ImagesDropped,
		"retries":        summary.Retries,
		"elapsed":        summary.Elapsed.String(),
	})
	if ctx.Err() != nil {
		s.logger.Warn("Crawl interrupted")
	}

	return summary
}
