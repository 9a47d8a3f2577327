package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
)

// SnapshotStore persists fetched pages for offline fallback.
//
// Implemented by repositories.SnapshotStoreAdapter.
type SnapshotStore interface {
	Save(page *models.ResultPage, fetchedAt time.Time) (*models.Snapshot, error)
	Latest() (*models.Snapshot, error)
}

// LoadResult is the outcome of one [Loader.Load].
type LoadResult struct {
	Page       *models.ResultPage // Never nil
	FetchedAt  time.Time          // When the page left the API
	Stale      bool               // Page came from a snapshot after a failed fetch
	SnapshotID string             // Snapshot the page was saved to or read from, if any
	FetchErr   error              // The failure that forced a stale result
}

// Loader fetches the now-playing listing with snapshot fallback.
type Loader struct {
	catalog services.Catalog
	store   SnapshotStore
	logger  *log.Logger
	now     func() time.Time
}

// NewLoader creates a Loader. store may be nil to disable persistence and fallback.
func NewLoader(catalog services.Catalog, store SnapshotStore, logger *log.Logger) *Loader {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Loader{catalog: catalog, store: store, logger: logger, now: time.Now}
}

// Load performs exactly one fetch, reporting each phase on progress when it is non-nil.
func (l *Loader) Load(ctx context.Context, progress chan<- ProgressUpdate) (*LoadResult, error) {
	if l.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	sendProgress(progress, fetchStartedUpdate(l.catalog.Name()))

	page, err := l.catalog.NowPlaying(ctx)
	if err == nil && page == nil {
		err = fmt.Errorf("%w: empty response from %s", shared.ErrAPIRequest, l.catalog.Name())
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return nil, err
		}
		return l.fallback(progress, err)
	}

	result := &LoadResult{Page: page, FetchedAt: l.now().UTC()}
	l.logger.Info("fetched now playing", "catalog", l.catalog.Name(), "movies", page.Len())

	if l.store != nil {
		snapshot, serr := l.store.Save(page, result.FetchedAt)
		if serr != nil {
			l.logger.Warn("failed to save snapshot", "error", serr)
		}
		if snapshot != nil {
			result.SnapshotID = snapshot.ID()
			sendProgress(progress, snapshotSavedUpdate(snapshot))
		}
	}

	return result, nil
}

// fallback returns the latest snapshot as a stale result, or fetchErr when there is none.
func (l *Loader) fallback(progress chan<- ProgressUpdate, fetchErr error) (*LoadResult, error) {
	if l.store == nil {
		return nil, fetchErr
	}

	snapshot, err := l.store.Latest()
	if err != nil {
		if !errors.Is(err, shared.ErrSnapshotNotFound) {
			l.logger.Warn("failed to read snapshot", "error", err)
		}
		return nil, fetchErr
	}

	sendProgress(progress, snapshotLoadedUpdate(snapshot))
	l.logger.Warn("fetch failed, using offline copy", "error", fetchErr, "snapshot", snapshot.Sequence(), "fetched_at", snapshot.FetchedAt())

	return &LoadResult{
		Page:       snapshot.Page(),
		FetchedAt:  snapshot.FetchedAt(),
		Stale:      true,
		SnapshotID: snapshot.ID(),
		FetchErr:   fetchErr,
	}, nil
}
