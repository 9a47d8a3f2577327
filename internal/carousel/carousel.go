package carousel

import (
	"fmt"

	"github.com/desertthunder/marquee/internal/models"
)

// DefaultWindowSize is the number of tiles per window when none is configured.
const DefaultWindowSize = 6

// State is the slider position and whether a window change is in flight.
type State struct {
	WindowIndex   int  `json:"window_index"`
	Transitioning bool `json:"transitioning"`
}

// normalize maps non-positive window sizes to [DefaultWindowSize].
func normalize(windowSize int) int {
	if windowSize < 1 {
		return DefaultWindowSize
	}
	return windowSize
}

// MaxWindowIndex returns the last valid window index for page: floor((n-1)/windowSize) where n
// is the number of post-banner items, or 0 when there is at most one.
func MaxWindowIndex(page *models.ResultPage, windowSize int) int {
	n := page.Len() - 1
	if n <= 1 {
		return 0
	}
	return (n - 1) / normalize(windowSize)
}

// WindowCount returns the number of windows the slider cycles through.
func WindowCount(page *models.ResultPage, windowSize int) int {
	return MaxWindowIndex(page, windowSize) + 1
}

// VisibleSlice returns items[1+w*i : 1+w*i+w], truncated at the end of the page.
//
// The banner item is always excluded. An index past the end yields an empty slice.
// The result shares the page's backing array with its capacity capped, so appending to it is safe.
func VisibleSlice(page *models.ResultPage, state State, windowSize int) []models.Movie {
	w := normalize(windowSize)
	n := page.Len()
	if state.WindowIndex < 0 || n <= 1 || state.WindowIndex > (n-1)/w {
		return []models.Movie{}
	}

	start := 1 + w*state.WindowIndex
	if start >= n {
		return []models.Movie{}
	}
	end := min(start+w, n)

	return page.Items[start:end:end]
}

// Advance starts a transition to the next window, wrapping to 0 after the last one.
//
// It returns state unchanged while a transition is already in flight.
// An index beyond the current last window (after the page shrank) also wraps to 0.
func Advance(state State, page *models.ResultPage, windowSize int) State {
	if state.Transitioning {
		return state
	}

	next := state.WindowIndex + 1
	if state.WindowIndex >= MaxWindowIndex(page, windowSize) || state.WindowIndex < 0 {
		next = 0
	}

	return State{WindowIndex: next, Transitioning: true}
}

// CompleteTransition marks the in-flight transition as finished.
func CompleteTransition(state State) State {
	state.Transitioning = false
	return state
}

// Controller owns a slider [State] for a fixed window size.
//
// It is not safe for concurrent use; the owning UI loop serializes access.
type Controller struct {
	windowSize int
	state      State
}

// New returns a Controller at window 0. windowSize must be at least 1.
func New(windowSize int) (*Controller, error) {
	if windowSize < 1 {
		return nil, fmt.Errorf("window size must be at least 1, got %d", windowSize)
	}
	return &Controller{windowSize: windowSize}, nil
}

// WindowSize returns the configured number of tiles per window.
func (c *Controller) WindowSize() int { return c.windowSize }

// State returns the current slider state.
func (c *Controller) State() State { return c.state }

// Transitioning reports whether a window change is in flight.
func (c *Controller) Transitioning() bool { return c.state.Transitioning }

// Advance moves to the next window of page and reports whether a transition started.
func (c *Controller) Advance(page *models.ResultPage) bool {
	if c.state.Transitioning {
		return false
	}
	c.state = Advance(c.state, page, c.windowSize)
	return true
}

// CompleteTransition ends the in-flight transition. Calling it with none in flight is a no-op.
func (c *Controller) CompleteTransition() {
	c.state = CompleteTransition(c.state)
}

// Visible returns the items in the current window of page.
func (c *Controller) Visible(page *models.ResultPage) []models.Movie {
	return VisibleSlice(page, c.state, c.windowSize)
}

// Max returns the last window index for page.
func (c *Controller) Max(page *models.ResultPage) int {
	return MaxWindowIndex(page, c.windowSize)
}

// Reset returns to the first window and clears any in-flight transition. Used when a new page replaces the old one.
func (c *Controller) Reset() {
	c.state = State{}
}
