package tasks

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
)

// Status is the load state of a [Feed].
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FeedState is a consistent snapshot of a [Feed]. Page is nil unless Status is StatusReady.
type FeedState struct {
	Status    Status
	Page      *models.ResultPage
	FetchedAt time.Time
	Stale     bool
	Err       error
}

// Feed holds the current listing for readers that cannot block on a fetch.
type Feed struct {
	loader *Loader
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	state  FeedState
	gen    uint64
	closed bool
}

// NewFeed creates a Feed in the Loading state. Call [Feed.Start] to begin the first fetch.
func NewFeed(loader *Loader, logger *log.Logger) *Feed {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Feed{
		loader: loader,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		state:  FeedState{Status: StatusLoading},
	}
}

// Start launches a background load.
func (f *Feed) Start() {
	gen, ok := f.begin()
	if !ok {
		return
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.run(f.ctx, gen)
	}()
}

// Refresh loads synchronously and returns the resulting state.
//
// The state reads Loading for the duration. A later Start or Refresh supersedes this one.
func (f *Feed) Refresh(ctx context.Context) FeedState {
	gen, ok := f.begin()
	if !ok {
		return f.State()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(f.ctx, cancel)
	defer stop()

	f.run(ctx, gen)
	return f.State()
}

// State returns the current state.
func (f *Feed) State() FeedState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Close cancels any in-flight load and waits for background work. Later results are discarded.
func (f *Feed) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.mu.Unlock()

	f.cancel()
	f.wg.Wait()
}

// begin moves the feed to Loading and returns the generation for the new load.
func (f *Feed) begin() (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, false
	}
	f.gen++
	f.state = FeedState{Status: StatusLoading}
	return f.gen, true
}

func (f *Feed) run(ctx context.Context, gen uint64) {
	result, err := f.loader.Load(ctx, nil)
	if err != nil {
		f.logger.Error("failed to load listing", "error", err)
		f.apply(gen, FeedState{Status: StatusFailed, Err: err})
		return
	}

	f.apply(gen, FeedState{
		Status:    StatusReady,
		Page:      result.Page,
		FetchedAt: result.FetchedAt,
		Stale:     result.Stale,
		Err:       result.FetchErr,
	})
}

// apply stores state unless the feed is closed or gen has been superseded.
func (f *Feed) apply(gen uint64, state FeedState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || gen != f.gen {
		f.logger.Debug("discarding stale load result", "gen", gen, "current", f.gen, "closed", f.closed)
		return
	}
	f.state = state
}
