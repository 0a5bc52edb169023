package scraper

import (
	"context"

	"everia/pkg/fetch"
)

// PageFetcher issues single GET requests for listing pages, post pages and
// images alike
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Response, error)
}
