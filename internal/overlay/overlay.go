// Package overlay resolves the movie shown in the detail overlay from the current navigation location.
//
// Whether the overlay is open is never stored; it is derived from the location each time.
// Opening a movie navigates to /movies/{id}, dismissing navigates back to /.
package overlay

import (
	"strconv"
	"strings"

	"github.com/desertthunder/marquee/internal/models"
)

// BasePath is the location with no overlay open.
const BasePath = "/"

const detailPrefix = "/movies/"

// DetailPath returns the location that opens the overlay for id.
func DetailPath(id int) string {
	return detailPrefix + strconv.Itoa(id)
}

// Selection is the overlay state derived from a location.
type Selection struct {
	ID   string // Movie ID in its canonical string form; meaningful only when Open
	Open bool
}

// FromLocation matches path against /movies/:id. A trailing slash and any query or fragment are ignored.
func FromLocation(path string) Selection {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSuffix(path, "/")

	id, ok := strings.CutPrefix(path, detailPrefix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return Selection{}
	}
	return Selection{ID: id, Open: true}
}

// Resolve returns the first item of page whose ID matches sel, or false when nothing is selected or nothing matches.
func Resolve(page *models.ResultPage, sel Selection) (models.Movie, bool) {
	if !sel.Open || page == nil {
		return models.Movie{}, false
	}
	for _, m := range page.Items {
		if m.Key() == sel.ID {
			return m, true
		}
	}
	return models.Movie{}, false
}

// ResolveLocation is Resolve(page, FromLocation(path)).
func ResolveLocation(page *models.ResultPage, path string) (models.Movie, bool) {
	return Resolve(page, FromLocation(path))
}
