// Package crawler walks the paginated listing and collects post URLs.
package crawler

import (
	"context"

	errs "everia/pkg/errors"
	"everia/pkg/extract"
	"everia/pkg/fetch"
	"everia/pkg/logger"
	"everia/pkg/models"
)

// PageReporter observes listing page progress
type PageReporter interface {
	PageStarted(page int, url string)
	PageFetched(page int, url string, posts int)
	PagesExhausted(page int, url string, err error)
}

type nopReporter struct{}

func (nopReporter) PageStarted(int, string)           {}
func (nopReporter) PageFetched(int, string, int)      {}
func (nopReporter) PagesExhausted(int, string, error) {}

// Walker fetches listing pages in order until the site stops serving them
type Walker struct {
	site     *models.Site
	fetcher  fetch.Fetcher
	reporter PageReporter
	logger   logger.Logger
}

// NewWalker creates a walker over site's listing
func NewWalker(site *models.Site, fetcher fetch.Fetcher, reporter PageReporter, log logger.Logger) *Walker {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Walker{
		site:     site,
		fetcher:  fetcher,
		reporter: reporter,
		logger:   log.WithField("component", "crawler"),
	}
}

// CollectPosts fetches page 1, 2, ... and concatenates the post links of
// every page in page order. The walk ends at the first redirect, at any
// other fetch failure, or when ctx is cancelled; whatever was collected
// up to that point is returned.
func (w *Walker) CollectPosts(ctx context.Context) []models.Post {
	posts := []models.Post{}

	for page := 1; ; page++ {
		url := w.site.PageURL(page)

		if err := ctx.Err(); err != nil {
			w.logger.WithError(err).InfoWithFields("listing walk cancelled", map[string]interface{}{
				"page":  page,
				"url":   url,
				"posts": len(posts),
			})
			w.reporter.PagesExhausted(page, url, err)
			return posts
		}

		w.reporter.PageStarted(page, url)

		resp, err := w.fetcher.Fetch(ctx, url)
		if err != nil {
			reason := "fetch failed"
			if errs.IsRedirect(err) {
				reason = "redirected"
			}
			w.logger.WithError(err).InfoWithFields("listing exhausted", map[string]interface{}{
				"page":   page,
				"url":    url,
				"reason": reason,
				"posts":  len(posts),
			})
			w.reporter.PagesExhausted(page, url, err)
			return posts
		}

		links := extract.PostLinks(resp.UTF8())
		for _, link := range links {
			posts = append(posts, models.Post(link))
		}

		w.logger.DebugWithFields("listing page fetched", map[string]interface{}{
			"page":  page,
			"url":   url,
			"posts": len(links),
		})
		w.reporter.PageFetched(page, url, len(links))
	}
}
