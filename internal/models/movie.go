package models

import (
	"strconv"
)

// Movie is a single title from a TMDB listing. Empty image paths mean the image is absent.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
}

// Key returns the canonical string form of the movie ID, as used in routes.
func (m Movie) Key() string {
	return strconv.Itoa(m.ID)
}

// Year returns the release year, or "" when the release date is unknown.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

// Dates is the release window reported alongside a now-playing listing.
type Dates struct {
	Maximum string `json:"maximum"`
	Minimum string `json:"minimum"`
}

// ResultPage is one page of a TMDB listing. Item order is significant.
//
// A ResultPage is replaced wholesale on refetch and never mutated in place.
type ResultPage struct {
	Dates        Dates   `json:"dates"`
	Page         int     `json:"page"`
	Items        []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Len returns the number of items, treating a nil page as empty.
func (p *ResultPage) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

// Banner returns the first item, which is shown as the hero and never appears in the slider.
func (p *ResultPage) Banner() (Movie, bool) {
	if p.Len() == 0 {
		return Movie{}, false
	}
	return p.Items[0], true
}

// Rest returns the items after the banner. The result shares p's backing array and must not be modified.
func (p *ResultPage) Rest() []Movie {
	if p.Len() <= 1 {
		return nil
	}
	return p.Items[1:len(p.Items):len(p.Items)]
}
