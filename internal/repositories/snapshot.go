package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
)

const snapshotColumns = `id, sequence, page, total_pages, total_results, date_minimum, date_maximum, fetched_at, created_at, updated_at, deleted_at`

// SnapshotRepository implements models.Repository[*models.Snapshot].
type SnapshotRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Snapshot] = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create inserts the snapshot and its movies in one transaction, assigning ID and sequence.
func (r *SnapshotRepository) Create(snapshot *models.Snapshot) error {
	snapshot.SetID(shared.GenerateID())
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("%w: validation failed: %w", shared.ErrInvalidInput, err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := nextSequence(tx, "snapshots")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	page := snapshot.Page()
	_, err = tx.Exec(`
		INSERT INTO snapshots (id, sequence, page, total_pages, total_results, date_minimum, date_maximum, fetched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		snapshot.ID(),
		sequence,
		page.Page,
		page.TotalPages,
		page.TotalResults,
		page.Dates.Minimum,
		page.Dates.Maximum,
		snapshot.FetchedAt(),
		snapshot.CreatedAt(),
		snapshot.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO snapshot_movies (snapshot_id, position, movie_id, title, overview, backdrop_path, poster_path, release_date, vote_average, original_language)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare movie insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range page.Items {
		if _, err := stmt.Exec(snapshot.ID(), i, m.ID, m.Title, m.Overview, m.BackdropPath, m.PosterPath, m.ReleaseDate, m.VoteAverage, m.OriginalLanguage); err != nil {
			return fmt.Errorf("failed to insert movie %d: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	snapshot.SetSequence(sequence)
	return nil
}

// Get retrieves a snapshot and its movies by ID, excluding soft-deleted snapshots
func (r *SnapshotRepository) Get(id string) (*models.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE id = ? AND deleted_at IS NULL`

	snapshot, err := r.scanOne(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}
	return r.withMovies(snapshot)
}

// GetBySequence retrieves a snapshot by its sequence number
func (r *SnapshotRepository) GetBySequence(sequence int) (*models.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE sequence = ? AND deleted_at IS NULL`

	snapshot, err := r.scanOne(r.db.QueryRow(query, sequence))
	if err != nil {
		return nil, err
	}
	return r.withMovies(snapshot)
}

// Latest returns the most recently stored snapshot.
func (r *SnapshotRepository) Latest() (*models.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE deleted_at IS NULL ORDER BY sequence DESC LIMIT 1`

	snapshot, err := r.scanOne(r.db.QueryRow(query))
	if err != nil {
		return nil, err
	}
	return r.withMovies(snapshot)
}

// Delete soft-deletes a snapshot by ID
func (r *SnapshotRepository) Delete(id string) error {
	now := time.Now().UTC()

	result, err := r.db.Exec(`UPDATE snapshots SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, id)
	}

	return nil
}

// List retrieves snapshots newest first, excluding soft-deleted ones.
//
// Supported criteria: "limit" (int) and "include_deleted" (bool).
// Movies are loaded for every returned snapshot.
func (r *SnapshotRepository) List(criteria map[string]any) ([]*models.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots`
	args := []any{}

	if include, ok := criteria["include_deleted"].(bool); !ok || !include {
		query += " WHERE deleted_at IS NULL"
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}

	var snapshots []*models.Snapshot
	for rows.Next() {
		snapshot, err := r.scan(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for i, s := range snapshots {
		if snapshots[i], err = r.withMovies(s); err != nil {
			return nil, err
		}
	}

	return snapshots, nil
}

// Prune permanently removes every snapshot except the newest keep live ones, and returns how many were removed.
//
// Soft-deleted snapshots are always removed.
func (r *SnapshotRepository) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("%w: keep must not be negative", shared.ErrInvalidArgument)
	}

	result, err := r.db.Exec(`
		DELETE FROM snapshots
		WHERE id NOT IN (
			SELECT id FROM snapshots WHERE deleted_at IS NULL ORDER BY sequence DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(rows), nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanOne scans a single [sql.Row], mapping no rows to [shared.ErrSnapshotNotFound]
func (r *SnapshotRepository) scanOne(row *sql.Row) (*models.Snapshot, error) {
	snapshot, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSnapshotNotFound
	}
	return snapshot, err
}

func (r *SnapshotRepository) scan(s scanner) (*models.Snapshot, error) {
	var (
		id        string
		sequence  int
		page      models.ResultPage
		fetchedAt time.Time
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := s.Scan(&id, &sequence, &page.Page, &page.TotalPages, &page.TotalResults, &page.Dates.Minimum, &page.Dates.Maximum,
		&fetchedAt, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreSnapshot(id, sequence, page, fetchedAt, createdAt, updatedAt, deleted), nil
}

// withMovies loads the snapshot's movies in position order and returns a snapshot carrying them.
func (r *SnapshotRepository) withMovies(s *models.Snapshot) (*models.Snapshot, error) {
	rows, err := r.db.Query(`
		SELECT movie_id, title, overview, backdrop_path, poster_path, release_date, vote_average, original_language
		FROM snapshot_movies
		WHERE snapshot_id = ?
		ORDER BY position ASC
	`, s.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot movies: %w", err)
	}
	defer rows.Close()

	page := *s.Page()
	page.Items = nil
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Overview, &m.BackdropPath, &m.PosterPath, &m.ReleaseDate, &m.VoteAverage, &m.OriginalLanguage); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		page.Items = append(page.Items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return models.RestoreSnapshot(s.ID(), s.Sequence(), page, s.FetchedAt(), s.CreatedAt(), s.UpdatedAt(), s.DeletedAt()), nil
}
