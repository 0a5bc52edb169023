package downloader

import "everia/pkg/models"

// Reporter observes post and image progress. Implementations must be safe
// for concurrent use.
type Reporter interface {
	PostStarted(post models.Post, remaining int)
	PostFinished(post models.Post, remaining int, err error)
	ImageWritten()
	ImageDropped(link string, err error)
	ImageRetried()
}

type nopReporter struct{}

func (nopReporter) PostStarted(models.Post, int)         {}
func (nopReporter) PostFinished(models.Post, int, error) {}
func (nopReporter) ImageWritten()                        {}
func (nopReporter) ImageDropped(string, error)           {}
func (nopReporter) ImageRetried()                        {}
