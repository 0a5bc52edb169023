package downloader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"everia/pkg/logger"
	"everia/pkg/models"
)

// MockProcessor records every post it is handed
type MockProcessor struct {
	mu        sync.Mutex
	seen      map[models.Post]int
	delay     time.Duration
	fail      map[models.Post]bool
	active    atomic.Int32
	maxActive atomic.Int32
}

func NewMockProcessor() *MockProcessor {
	return &MockProcessor{seen: map[models.Post]int{}, fail: map[models.Post]bool{}}
}

func (m *MockProcessor) DownloadPost(ctx context.Context, post models.Post) error {
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		cur := m.maxActive.Load()
		if n <= cur || m.maxActive.CompareAndSwap(cur, n) {
			break
		}
	}

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	m.seen[post]++
	m.mu.Unlock()

	if m.fail[post] {
		return errors.New("post page unavailable")
	}
	return nil
}

// countingReporter counts pool callbacks
type countingReporter struct {
	nopReporter
	started  atomic.Int32
	finished atomic.Int32
	failed   atomic.Int32
}

func (r *countingReporter) PostStarted(models.Post, int) { r.started.Add(1) }
func (r *countingReporter) PostFinished(_ models.Post, _ int, err error) {
	r.finished.Add(1)
	if err != nil {
		r.failed.Add(1)
	}
}

func makePosts(n int) []models.Post {
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post(fmt.Sprintf("https://site.example/post-%d/", i))
	}
	return posts
}

func TestWorkerPoolProcessesEachPostOnce(t *testing.T) {
	posts := makePosts(25)
	processor := NewMockProcessor()
	processor.delay = 5 * time.Millisecond
	reporter := &countingReporter{}

	pool := NewWorkerPool(4, processor, reporter, logger.NewNopLogger())
	pool.Run(context.Background(), posts)

	require.Len(t, processor.seen, len(posts))
	for _, post := range posts {
		assert.Equal(t, 1, processor.seen[post], string(post))
	}
	assert.LessOrEqual(t, processor.maxActive.Load(), int32(4))
	assert.Equal(t, int32(25), reporter.started.Load())
	assert.Equal(t, int32(25), reporter.finished.Load())
}

func TestWorkerPoolUsesAllWorkers(t *testing.T) {
	const workers = 3
	var arrived atomic.Int32
	release := make(chan struct{})

	processor := processorFunc(func(ctx context.Context, post models.Post) error {
		if arrived.Add(1) == workers {
			close(release)
		}
		select {
		case <-release:
			return nil
		case <-time.After(5 * time.Second):
			return errors.New("workers did not run concurrently")
		}
	})

	reporter := &countingReporter{}
	pool := NewWorkerPool(workers, processor, reporter, logger.NewNopLogger())
	pool.Run(context.Background(), makePosts(workers))

	assert.Equal(t, int32(0), reporter.failed.Load())
}

func TestWorkerPoolSwallowsPostErrors(t *testing.T) {
	posts := makePosts(6)
	processor := NewMockProcessor()
	processor.fail[posts[1]] = true
	processor.fail[posts[4]] = true
	reporter := &countingReporter{}
	log := logger.NewTestLogger()

	NewWorkerPool(2, processor, reporter, log).Run(context.Background(), posts)

	assert.Len(t, processor.seen, 6)
	assert.Equal(t, int32(2), reporter.failed.Load())
	assert.Len(t, log.GetMessagesByLevel("WARN"), 2)
}

func TestWorkerPoolEmptyQueue(t *testing.T) {
	processor := NewMockProcessor()

	done := make(chan struct{})
	go func() {
		NewWorkerPool(8, processor, nil, logger.NewNopLogger()).Run(context.Background(), nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return for an empty queue")
	}
	assert.Empty(t, processor.seen)
}

func TestWorkerPoolMoreWorkersThanPosts(t *testing.T) {
	posts := makePosts(2)
	processor := NewMockProcessor()

	NewWorkerPool(10, processor, nil, logger.NewNopLogger()).Run(context.Background(), posts)

	assert.Len(t, processor.seen, 2)
}

func TestWorkerPoolStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	processor := processorFunc(func(ctx context.Context, post models.Post) error {
		if calls.Add(1) == 1 {
			cancel()
		}
		return nil
	})

	NewWorkerPool(1, processor, nil, logger.NewNopLogger()).Run(ctx, makePosts(10))

	assert.Equal(t, int32(1), calls.Load())
}

func TestNewWorkerPoolMinimumOneWorker(t *testing.T) {
	pool := NewWorkerPool(0, NewMockProcessor(), nil, nil)
	assert.Equal(t, 1, pool.GetActiveWorkers())
}

type processorFunc func(ctx context.Context, post models.Post) error

func (f processorFunc) DownloadPost(ctx context.Context, post models.Post) error {
	return f(ctx, post)
}
