package models

import (
	"fmt"
	"time"
)

// Snapshot is a persisted copy of a [ResultPage] taken at FetchedAt.
type Snapshot struct {
	id        string
	sequence  int
	fetchedAt time.Time
	page      ResultPage
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

var _ Model = (*Snapshot)(nil)

// NewSnapshot creates a new unsaved snapshot of page. The page items are copied.
func NewSnapshot(page *ResultPage, fetchedAt time.Time) *Snapshot {
	now := time.Now().UTC()
	s := &Snapshot{fetchedAt: fetchedAt.UTC(), createdAt: now, updatedAt: now}
	if page != nil {
		s.page = *page
		s.page.Items = append([]Movie(nil), page.Items...)
	}
	return s
}

// RestoreSnapshot rebuilds a snapshot from stored fields.
func RestoreSnapshot(id string, sequence int, page ResultPage, fetchedAt, createdAt, updatedAt time.Time, deletedAt *time.Time) *Snapshot {
	return &Snapshot{
		id:        id,
		sequence:  sequence,
		page:      page,
		fetchedAt: fetchedAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (s *Snapshot) ID() string            { return s.id }
func (s *Snapshot) Sequence() int         { return s.sequence }
func (s *Snapshot) FetchedAt() time.Time  { return s.fetchedAt }
func (s *Snapshot) CreatedAt() time.Time  { return s.createdAt }
func (s *Snapshot) UpdatedAt() time.Time  { return s.updatedAt }
func (s *Snapshot) DeletedAt() *time.Time { return s.deletedAt }
func (s *Snapshot) IsDeleted() bool       { return s.deletedAt != nil }

// Page returns a pointer to the snapshot's page. Callers must treat it as read-only.
func (s *Snapshot) Page() *ResultPage { return &s.page }

// SetID sets the identifier assigned at insert time.
func (s *Snapshot) SetID(id string) { s.id = id }

// SetSequence sets the sequence number assigned at insert time.
func (s *Snapshot) SetSequence(seq int) { s.sequence = seq }

// Validate checks that the snapshot can be stored.
func (s *Snapshot) Validate() error {
	if s.id == "" {
		return fmt.Errorf("snapshot ID is required")
	}
	if s.fetchedAt.IsZero() {
		return fmt.Errorf("snapshot fetched_at is required")
	}
	seen := make(map[int]bool, len(s.page.Items))
	for _, m := range s.page.Items {
		if seen[m.ID] {
			return fmt.Errorf("duplicate movie ID %d in snapshot", m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}
