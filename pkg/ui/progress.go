package ui

import (
	"fmt"
	"sync/atomic"
	"time"

	"everia/pkg/models"
)

// Stats is a point-in-time copy of the tracker counters
type Stats struct {
	Pages         int
	Posts         int
	PostsDone     int
	PostsFailed   int
	ImagesWritten int
	ImagesDropped int
	Retries       int
	Elapsed       time.Duration
}

// StatusTracker counts progress across the whole run. It is safe for
// concurrent use and never influences control flow.
type StatusTracker struct {
	pages         atomic.Int64
	posts         atomic.Int64
	postsDone     atomic.Int64
	postsFailed   atomic.Int64
	imagesWritten atomic.Int64
	imagesDropped atomic.Int64
	retries       atomic.Int64
	startTime     time.Time

	console *Console
	spinner *PageSpinner
}

// NewStatusTracker creates a tracker. A nil console disables all output.
func NewStatusTracker(console *Console) *StatusTracker {
	st := &StatusTracker{
		startTime: time.Now(),
		console:   console,
	}
	if console != nil {
		st.spinner = NewPageSpinner(console)
	}
	return st
}

// PageStarted marks the start of a listing page fetch
func (st *StatusTracker) PageStarted(page int, url string) {
	if st.spinner != nil {
		st.spinner.Fetching(url)
	}
}

// PageFetched records an accepted listing page
func (st *StatusTracker) PageFetched(page int, url string, posts int) {
	st.pages.Add(1)
	st.posts.Add(int64(posts))
	if st.spinner != nil {
		st.spinner.Pass(url, posts)
	}
}

// PagesExhausted records the page that ended discovery
func (st *StatusTracker) PagesExhausted(page int, url string, err error) {
	if st.spinner != nil {
		st.spinner.Done(url)
	}
}

// PostStarted records that a worker picked up post
func (st *StatusTracker) PostStarted(post models.Post, remaining int) {
	if st.console != nil {
		st.console.PrintPost(remaining, "downloading "+string(post))
	}
}

// PostFinished records the end of a post, successful or not
func (st *StatusTracker) PostFinished(post models.Post, remaining int, err error) {
	if err != nil {
		st.postsFailed.Add(1)
		if st.console != nil {
			st.console.PrintPost(remaining, st.console.warning.Render("skipped ")+string(post))
		}
		return
	}
	st.postsDone.Add(1)
	if st.console != nil {
		st.console.PrintPost(remaining, "done")
	}
}

// ImageWritten records a stored image
func (st *StatusTracker) ImageWritten() {
	st.imagesWritten.Add(1)
}

// ImageDropped records an image whose retry budget ran out
func (st *StatusTracker) ImageDropped(link string, err error) {
	st.imagesDropped.Add(1)
}

// ImageRetried records one retry of an image
func (st *StatusTracker) ImageRetried() {
	st.retries.Add(1)
}

// Snapshot returns the current counters
func (st *StatusTracker) Snapshot() Stats {
	return Stats{
		Pages:         int(st.pages.Load()),
		Posts:         int(st.posts.Load()),
		PostsDone:     int(st.postsDone.Load()),
		PostsFailed:   int(st.postsFailed.Load()),
		ImagesWritten: int(st.imagesWritten.Load()),
		ImagesDropped: int(st.imagesDropped.Load()),
		Retries:       int(st.retries.Load()),
		Elapsed:       st.GetElapsedTime(),
	}
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.startTime)
}

// PrintSummary prints the end-of-run totals
func (st *StatusTracker) PrintSummary() {
	if st.console == nil {
		return
	}
	s := st.Snapshot()
	c := st.console

	c.println(false, "")
	c.PrintSuccess(fmt.Sprintf("✓ Downloaded %d images from %d posts", s.ImagesWritten, s.PostsDone))
	c.println(false, fmt.Sprintf("  %s %d pages • %d posts discovered in %s",
		c.Faint("•"), s.Pages, s.Posts, FormatDuration(s.Elapsed)))
	if s.Retries > 0 {
		c.println(false, fmt.Sprintf("  %s %d retries", c.Faint("•"), s.Retries))
	}
	if s.ImagesDropped > 0 {
		c.println(false, fmt.Sprintf("  %s %d images dropped", c.Faint("•"), s.ImagesDropped))
	}
	if s.PostsFailed > 0 {
		c.println(false, fmt.Sprintf("  %s %d posts skipped", c.Faint("•"), s.PostsFailed))
	}
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
