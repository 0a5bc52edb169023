package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"everia/pkg/config"
	"everia/pkg/logger"
	"everia/pkg/models"
	"everia/pkg/ui"
)

// mockSite mimics a listing with one page of posts per entry in pages;
// the page after the last one redirects back to the start
type mockSite struct {
	server        *httptest.Server
	pages         [][]string
	imagesPerPost int
	flaky         map[string]int
	listingCalls  atomic.Int32
	imageCalls    atomic.Int32
	mu            sync.Mutex
	attempts      map[string]int
}

func newMockSite(t *testing.T, pages [][]string, imagesPerPost int) *mockSite {
	t.Helper()
	m := &mockSite{
		pages:         pages,
		imagesPerPost: imagesPerPost,
		flaky:         map[string]int{},
		attempts:      map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/category/gravure/", func(w http.ResponseWriter, r *http.Request) {
		m.listingCalls.Add(1)
		page := 1
		if rest := strings.TrimPrefix(r.URL.Path, "/category/gravure/"); rest != "" {
			if _, err := fmt.Sscanf(rest, "page/%d/", &page); err != nil {
				http.NotFound(w, r)
				return
			}
		}
		if page > len(m.pages) {
			http.Redirect(w, r, "/category/gravure/", http.StatusMovedPermanently)
			return
		}
		fmt.Fprint(w, `<html><body><div id="content">`)
		for _, slug := range m.pages[page-1] {
			fmt.Fprintf(w, `<article><a rel="bookmark" href="%s/posts/%s/">%s</a></article>`, m.server.URL, slug, slug)
		}
		fmt.Fprint(w, `</div></body></html>`)
	})
	mux.HandleFunc("/posts/", func(w http.ResponseWriter, r *http.Request) {
		slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/posts/"), "/")
		fmt.Fprint(w, `<html><body><div class="entry-content">`)
		for i := 1; i <= m.imagesPerPost; i++ {
			fmt.Fprintf(w, `<img data-lazy-src="%s/uploads/%s/%02d.jpg">`, m.server.URL, slug, i)
		}
		fmt.Fprint(w, `</div></body></html>`)
	})
	mux.HandleFunc("/uploads/", func(w http.ResponseWriter, r *http.Request) {
		m.imageCalls.Add(1)
		m.mu.Lock()
		m.attempts[r.URL.Path]++
		attempt := m.attempts[r.URL.Path]
		failures := m.flaky[r.URL.Path]
		m.mu.Unlock()

		if attempt <= failures {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		w.Write([]byte(r.URL.Path))
	})

	m.server = httptest.NewServer(mux)
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockSite) attemptsFor(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts[path]
}

func (m *mockSite) listingURL() string {
	return m.server.URL + "/category/gravure/"
}

func newTestScraper(t *testing.T, m *mockSite, out string, opts ...models.SiteOption) (*Scraper, *bytes.Buffer) {
	t.Helper()
	site, err := models.NewSite(m.listingURL(), out, opts...)
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Download.RequestTimeout = 5 * time.Second

	var console bytes.Buffer
	s := New(site, cfg, WithConsole(ui.NewConsole(&console, false)), WithLogger(logger.NewNopLogger()))
	return s, &console
}

func TestDownloadEndToEnd(t *testing.T) {
	m := newMockSite(t, [][]string{{"a", "b", "c"}, {"d", "e", "f"}}, 2)
	out := filepath.Join(t.TempDir(), "gravure")
	s, console := newTestScraper(t, m, out, models.WithWorkers(3))

	summary := s.Download(context.Background())

	assert.Equal(t, out, summary.OutputDir)
	assert.Equal(t, 2, summary.Pages)
	assert.Equal(t, 6, summary.Posts)
	assert.Equal(t, 12, summary.ImagesWritten)
	assert.Equal(t, 0, summary.ImagesDropped)
	assert.Equal(t, 0, summary.PostsFailed)
	assert.Equal(t, int32(3), m.listingCalls.Load())

	files := 0
	for _, slug := range []string{"a", "b", "c", "d", "e", "f"} {
		for _, name := range []string{"01.jpg", "02.jpg"} {
			data, err := os.ReadFile(filepath.Join(out, slug, name))
			require.NoError(t, err)
			assert.Equal(t, "/uploads/"+slug+"/"+name, string(data))
			files++
		}
	}
	assert.Equal(t, 12, files)

	text := console.String()
	assert.Contains(t, text, "Output: "+out)
	assert.Contains(t, text, "fetching "+m.listingURL()+" - PASS")
	assert.Contains(t, text, "fetching "+m.listingURL()+"page/3/ - Done")
	assert.Equal(t, 6, strings.Count(text, "] done"))
	assert.Contains(t, text, "Downloaded 12 images from 6 posts")
}

func TestDownloadRetriesFlakyImages(t *testing.T) {
	m := newMockSite(t, [][]string{{"a"}}, 2)
	m.flaky["/uploads/a/01.jpg"] = 3
	m.flaky["/uploads/a/02.jpg"] = 100
	out := t.TempDir()
	s, _ := newTestScraper(t, m, out, models.WithRetry(5))

	summary := s.Download(context.Background())

	assert.Equal(t, 1, summary.ImagesWritten)
	assert.Equal(t, 1, summary.ImagesDropped)
	assert.Equal(t, 3+5, summary.Retries)
	assert.Equal(t, 4, m.attemptsFor("/uploads/a/01.jpg"))
	assert.Equal(t, 6, m.attemptsFor("/uploads/a/02.jpg"))

	_, err := os.Stat(filepath.Join(out, "a", "01.jpg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "a", "02.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestDownloadEmptyListing(t *testing.T) {
	m := newMockSite(t, nil, 2)
	s, _ := newTestScraper(t, m, t.TempDir())

	summary := s.Download(context.Background())

	assert.Equal(t, 0, summary.Pages)
	assert.Equal(t, 0, summary.Posts)
	assert.Equal(t, int32(0), m.imageCalls.Load())
}

func TestDownloadCancelled(t *testing.T) {
	m := newMockSite(t, [][]string{{"a", "b"}}, 2)
	s, _ := newTestScraper(t, m, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := s.Download(ctx)

	assert.Equal(t, 0, summary.Posts)
	assert.Equal(t, int32(0), m.listingCalls.Load())
}

func TestNewDefaults(t *testing.T) {
	site, err := models.NewSite("https://site.example/category/gravure/", "")
	require.NoError(t, err)

	s := New(site, nil)

	assert.NotNil(t, s.client)
	assert.NotNil(t, s.logger)
	assert.Nil(t, s.console)
	assert.Equal(t, "gravure", s.storageManager.GetOutputDir())
}
