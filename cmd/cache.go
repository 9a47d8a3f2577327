package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/repositories"
	"github.com/urfave/cli/v3"
)

// snapshotSummary is the printable form of a cached snapshot.
type snapshotSummary struct {
	ID        string             `json:"id"`
	Sequence  int                `json:"sequence"`
	FetchedAt time.Time          `json:"fetched_at"`
	Movies    int                `json:"movies"`
	Deleted   bool               `json:"deleted,omitempty"`
	Page      *models.ResultPage `json:"page,omitempty"`
}

func summarize(s *models.Snapshot, withPage bool) snapshotSummary {
	sum := snapshotSummary{
		ID:        s.ID(),
		Sequence:  s.Sequence(),
		FetchedAt: s.FetchedAt(),
		Movies:    s.Page().Len(),
		Deleted:   s.IsDeleted(),
	}
	if withPage {
		sum.Page = s.Page()
	}
	return sum
}

func (r *Runner) snapshotRepository() (*repositories.SnapshotRepository, func(), error) {
	db, err := r.openDatabase()
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewSnapshotRepository(db), func() { db.Close() }, nil
}

// CacheList prints cached snapshots, newest first.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.snapshotRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	snapshots, err := repo.List(map[string]any{
		"limit":           int(cmd.Int("limit")),
		"include_deleted": cmd.Bool("all"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]snapshotSummary, len(snapshots))
		for i, s := range snapshots {
			out[i] = summarize(s, false)
		}
		return r.writeJSON(out, false)
	}

	if len(snapshots) == 0 {
		r.writePlain("No cached snapshots. Run 'marquee movies now-playing' to create one.\n")
		return nil
	}

	r.writePlainHeader("Cached Snapshots")
	for _, s := range snapshots {
		status := ""
		if s.IsDeleted() {
			status = " (deleted)"
		}
		r.writePlain("#%-4d %s  %3d movies  %s%s\n", s.Sequence(), s.FetchedAt().Local().Format("2006-01-02 15:04"), s.Page().Len(), s.ID(), status)
	}
	return nil
}

// CacheShow prints a single snapshot, the newest one unless --sequence is given.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.snapshotRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	var snapshot *models.Snapshot
	if seq := int(cmd.Int("sequence")); seq > 0 {
		snapshot, err = repo.GetBySequence(seq)
	} else {
		snapshot, err = repo.Latest()
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(summarize(snapshot, true), cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Snapshot #%d", snapshot.Sequence()))
	r.writePlain("ID:      %s\n", snapshot.ID())
	r.writePlain("Fetched: %s\n", snapshot.FetchedAt().Local().Format(time.RFC1123))
	r.writePlain("Movies:  %d\n\n", snapshot.Page().Len())
	for i, m := range snapshot.Page().Items {
		r.writeMovieLine(i+1, m)
	}
	return nil
}

// CachePrune removes all but the newest snapshots.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	keep := int(cmd.Int("keep"))
	if keep < 0 {
		keep = r.config.Database.KeepSnapshots
		if keep <= 0 {
			r.writePlain("Retention is disabled (database.keep_snapshots = %d); nothing removed. Pass --keep to prune anyway.\n", keep)
			return nil
		}
	}

	repo, closeDB, err := r.snapshotRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	removed, err := repo.Prune(keep)
	if err != nil {
		return err
	}

	r.logger.Info("pruned snapshots", "removed", removed, "kept", keep)
	r.writePlain("✓ Removed %d snapshot(s), kept up to %d\n", removed, keep)
	return nil
}
