package models

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultWorkers = 8
	DefaultRetry   = 30
)

// Post is the URL of a detail page
type Post string

// Site is the immutable configuration of one crawl
type Site struct {
	ListingURL *url.URL
	OutputDir  string
	Workers    int
	Retry      int
	RetryDelay time.Duration
}

// SiteOption customises a Site at construction time
type SiteOption func(*Site)

// WithWorkers sets the worker pool size
func WithWorkers(n int) SiteOption {
	return func(s *Site) { s.Workers = n }
}

// WithRetry sets the per-image retry budget
func WithRetry(n int) SiteOption {
	return func(s *Site) { s.Retry = n }
}

// WithRetryDelay sets the pause between image attempts
func WithRetryDelay(d time.Duration) SiteOption {
	return func(s *Site) { s.RetryDelay = d }
}

// NewSite validates the listing URL and builds a Site.
// An empty outputDir is derived from the listing URL.
func NewSite(rawURL, outputDir string, opts ...SiteOption) (*Site, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid url %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid url %q: missing host", rawURL)
	}

	if outputDir == "" {
		outputDir = DefaultOutputDir(rawURL)
	}

	s := &Site{
		ListingURL: u,
		OutputDir:  outputDir,
		Workers:    DefaultWorkers,
		Retry:      DefaultRetry,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.Workers <= 0 {
		return nil, errors.New("workers must be positive")
	}
	if s.Retry < 0 {
		return nil, errors.New("retry cannot be negative")
	}

	return s, nil
}

// PageURL returns the listing URL of the given 1-based page.
// Page 1 is the bare listing URL; later pages append "page/<n>/".
func (s *Site) PageURL(page int) string {
	base := s.ListingURL.String()
	if page <= 1 {
		return base
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return fmt.Sprintf("%spage/%d/", base, page)
}

// FolderName decodes the second-to-last slash-delimited segment of rawURL.
// For "https://site.example/category/my-post-title/" it returns "my-post-title".
// Separators decoded from the segment are replaced so the name is always a
// single path element.
func FolderName(rawURL string) string {
	segments := strings.Split(rawURL, "/")
	if len(segments) < 2 {
		return "None"
	}
	segment := segments[len(segments)-2]
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return pathElement(decoded)
}

var separatorReplacer = strings.NewReplacer("/", "_", `\`, "_")

func pathElement(name string) string {
	name = separatorReplacer.Replace(name)
	if name == "." || name == ".." {
		return "_"
	}
	return name
}

// DefaultOutputDir is the output root used when none is given
func DefaultOutputDir(listingURL string) string {
	return FolderName(listingURL)
}

// FileName returns the final path segment of an image URL
func FileName(imageURL string) string {
	segments := strings.Split(imageURL, "/")
	return segments[len(segments)-1]
}
