package downloader

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	errs "everia/pkg/errors"
	"everia/pkg/extract"
	"everia/pkg/fetch"
	"everia/pkg/logger"
	"everia/pkg/models"
	"everia/pkg/retry"
)

// ImageStore lays out post folders and writes image files
type ImageStore interface {
	EnsureFolder(post models.Post) (string, error)
	WriteImage(folder, name string, data []byte) error
}

// PostDownloader fetches a post page and downloads all of its images
// concurrently, retrying each image independently
type PostDownloader struct {
	fetcher    fetch.Fetcher
	store      ImageStore
	retry      int
	retryDelay time.Duration
	reporter   Reporter
	logger     logger.Logger
}

// NewPostDownloader creates a downloader that allows each image one
// initial attempt plus retryBudget retries
func NewPostDownloader(
	fetcher fetch.Fetcher,
	store ImageStore,
	retryBudget int,
	retryDelay time.Duration,
	reporter Reporter,
	log logger.Logger,
) *PostDownloader {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &PostDownloader{
		fetcher:    fetcher,
		store:      store,
		retry:      retryBudget,
		retryDelay: retryDelay,
		reporter:   reporter,
		logger:     log.WithField("component", "post_downloader"),
	}
}

// DownloadPost stores every image of post in the post's folder.
// Only a failure to fetch the post page itself is returned; images that
// exhaust their retry budget are dropped.
func (d *PostDownloader) DownloadPost(ctx context.Context, post models.Post) error {
	folder, err := d.store.EnsureFolder(post)
	if err != nil {
		d.logger.WithError(err).DebugWithFields("Failed to create post folder", map[string]interface{}{
			"post":   string(post),
			"folder": folder,
		})
	}

	resp, err := d.fetcher.Fetch(ctx, string(post))
	if err != nil {
		return fmt.Errorf("failed to fetch post page: %w", err)
	}

	links := extract.ImageLinks(resp.UTF8())
	d.logger.DebugWithFields("Post images found", map[string]interface{}{
		"post":   string(post),
		"images": len(links),
	})

	var wg sync.WaitGroup
	for _, link := range links {
		wg.Add(1)
		go func(link string) {
			defer wg.Done()
			d.downloadImage(ctx, post, folder, link)
		}(resolve(string(post), link))
	}
	wg.Wait()

	return nil
}

func (d *PostDownloader) downloadImage(ctx context.Context, post models.Post, folder, link string) {
	name := models.FileName(link)

	cfg := retry.ForBudget(d.retry, d.retryDelay)
	cfg.Context = ctx
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		d.reporter.ImageRetried()
	}

	body, err := retry.DoWithResult(func() ([]byte, error) {
		resp, err := d.fetcher.Fetch(ctx, link)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, errs.New(errs.ErrorTypeStatus, resp.StatusCode, link, "expected 200 OK")
		}
		return resp.Body, nil
	}, cfg)

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		d.logger.WithError(err).DebugWithFields("Image dropped", map[string]interface{}{
			"post":     string(post),
			"image":    link,
			"attempts": cfg.MaxAttempts,
		})
		d.reporter.ImageDropped(link, err)
		return
	}

	// A fetched image is written once; write failures are not retried.
	if err := d.store.WriteImage(folder, name, body); err != nil {
		d.logger.WithError(err).DebugWithFields("Image write failed", map[string]interface{}{
			"post":  string(post),
			"image": link,
		})
		d.reporter.ImageDropped(link, err)
		return
	}

	d.reporter.ImageWritten()
}

// resolve makes link absolute against the post URL. Unparsable input is
// returned untouched.
func resolve(base, link string) string {
	ref, err := url.Parse(link)
	if err != nil || ref.IsAbs() {
		return link
	}
	b, err := url.Parse(base)
	if err != nil {
		return link
	}
	return b.ResolveReference(ref).String()
}
