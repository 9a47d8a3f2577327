// package services defines interface Catalog for interacting with movie listing APIs
package services

import (
	"context"

	"github.com/desertthunder/marquee/internal/models"
)

// Catalog is a source of movie listings.
type Catalog interface {
	// NowPlaying fetches the current now-playing listing.
	NowPlaying(ctx context.Context) (*models.ResultPage, error)

	// Name returns the name of the catalog (e.g., "TMDB")
	Name() string
}
