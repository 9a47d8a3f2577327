package overlay

// Navigator is the routing collaborator that owns the current location.
type Navigator interface {
	Location() string
	Navigate(path string)
	Back() bool
}

// History is an in-memory [Navigator] backed by a stack of visited locations.
type History struct {
	stack []string
}

var _ Navigator = (*History)(nil)

// NewHistory returns a History positioned at start, or [BasePath] when start is empty.
func NewHistory(start string) *History {
	if start == "" {
		start = BasePath
	}
	return &History{stack: []string{start}}
}

// Location returns the current location.
func (h *History) Location() string {
	return h.stack[len(h.stack)-1]
}

// Navigate pushes path. Navigating to the current location does nothing.
func (h *History) Navigate(path string) {
	if path == h.Location() {
		return
	}
	h.stack = append(h.stack, path)
}

// Back pops the current location, reporting false when already at the first entry.
func (h *History) Back() bool {
	if len(h.stack) == 1 {
		return false
	}
	h.stack = h.stack[:len(h.stack)-1]
	return true
}

// Len returns the number of entries in the history.
func (h *History) Len() int {
	return len(h.stack)
}

// Selection returns the overlay state for the current location.
func (h *History) Selection() Selection {
	return FromLocation(h.Location())
}

// Open navigates to the detail location for id.
func Open(nav Navigator, id int) {
	nav.Navigate(DetailPath(id))
}

// Dismiss closes the overlay. It steps back when the previous location has no overlay open,
// otherwise it navigates to [BasePath]. Dismissing a closed overlay does nothing.
func Dismiss(nav Navigator) {
	if !FromLocation(nav.Location()).Open {
		return
	}
	if nav.Back() && !FromLocation(nav.Location()).Open {
		return
	}
	nav.Navigate(BasePath)
}
