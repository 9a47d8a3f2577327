package tasks

import (
	"fmt"

	"github.com/desertthunder/marquee/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchListing Phase = iota
	SaveSnapshot
	LoadSnapshot
	ExportImage
)

func (p Phase) String() string {
	switch p {
	case FetchListing:
		return "fetch_listing"
	case SaveSnapshot:
		return "save_snapshot"
	case LoadSnapshot:
		return "load_snapshot"
	case ExportImage:
		return "export_image"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchStartedUpdate(catalog string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchListing,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching now playing from %s...", catalog),
	}
}

func snapshotSavedUpdate(s *models.Snapshot) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveSnapshot,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saved snapshot #%d (%d movies)", s.Sequence(), s.Page().Len()),
		Data:    s.ID(),
	}
}

func snapshotLoadedUpdate(s *models.Snapshot) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadSnapshot,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetch failed, using snapshot #%d from %s", s.Sequence(), s.FetchedAt().Local().Format("Jan 2 15:04")),
		Data:    s.ID(),
	}
}

func exportStartedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportImage,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Exporting %d images...", total),
	}
}

func imageSavedUpdate(step, total int, res ImageExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportImage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✓ %s (%s)", res.Title, res.Kind),
		Data:    res,
	}
}

func imageFailedUpdate(step, total int, res ImageExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportImage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✗ %s (%s): %v", res.Title, res.Kind, res.Error),
		Data:    res,
	}
}
