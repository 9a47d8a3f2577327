package repositories

import (
	"fmt"
	"time"

	"github.com/desertthunder/marquee/internal/models"
)

// SnapshotStoreAdapter implements tasks.SnapshotStore using SnapshotRepository.
//
// When keep is positive, each save is followed by a prune down to keep snapshots.
type SnapshotStoreAdapter struct {
	repo *SnapshotRepository
	keep int
}

// NewSnapshotStoreAdapter creates a new SnapshotStoreAdapter with the given repository
func NewSnapshotStoreAdapter(repo *SnapshotRepository, keep int) *SnapshotStoreAdapter {
	return &SnapshotStoreAdapter{repo: repo, keep: keep}
}

// Save stores page as a new snapshot.
func (a *SnapshotStoreAdapter) Save(page *models.ResultPage, fetchedAt time.Time) (*models.Snapshot, error) {
	snapshot := models.NewSnapshot(page, fetchedAt)
	if err := a.repo.Create(snapshot); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	if a.keep > 0 {
		if _, err := a.repo.Prune(a.keep); err != nil {
			return snapshot, fmt.Errorf("snapshot saved but prune failed: %w", err)
		}
	}

	return snapshot, nil
}

// Latest returns the newest stored snapshot, or an error wrapping shared.ErrSnapshotNotFound.
func (a *SnapshotStoreAdapter) Latest() (*models.Snapshot, error) {
	return a.repo.Latest()
}
