package models

import (
	"encoding/json"
	"testing"
	"time"
)

const nowPlayingJSON = `{
  "dates": {"maximum": "2024-05-22", "minimum": "2024-04-10"},
  "page": 1,
  "results": [
    {"id": 823464, "title": "Godzilla x Kong", "overview": "Two titans.", "backdrop_path": "/j3Z3.jpg", "poster_path": "/z1p3.jpg", "release_date": "2024-03-27", "vote_average": 7.2},
    {"id": 940551, "title": "Migration", "overview": "Ducks.", "backdrop_path": null, "poster_path": null}
  ],
  "total_pages": 203,
  "total_results": 4041
}`

func TestResultPage(t *testing.T) {
	t.Run("Decodes TMDB Schema", func(t *testing.T) {
		var page ResultPage
		if err := json.Unmarshal([]byte(nowPlayingJSON), &page); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}

		if page.Page != 1 || page.TotalPages != 203 || page.TotalResults != 4041 {
			t.Errorf("unexpected paging fields %+v", page)
		}
		if page.Dates.Maximum != "2024-05-22" || page.Dates.Minimum != "2024-04-10" {
			t.Errorf("unexpected dates %+v", page.Dates)
		}
		if len(page.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(page.Items))
		}
		if page.Items[0].BackdropPath != "/j3Z3.jpg" {
			t.Errorf("unexpected backdrop %q", page.Items[0].BackdropPath)
		}
		if page.Items[1].BackdropPath != "" || page.Items[1].PosterPath != "" {
			t.Error("null image paths should decode as absent")
		}
	})

	t.Run("Banner And Rest", func(t *testing.T) {
		page := &ResultPage{Items: []Movie{{ID: 1}, {ID: 2}, {ID: 3}}}

		banner, ok := page.Banner()
		if !ok || banner.ID != 1 {
			t.Errorf("expected banner id 1, got %+v (ok=%v)", banner, ok)
		}

		rest := page.Rest()
		if len(rest) != 2 || rest[0].ID != 2 || rest[1].ID != 3 {
			t.Errorf("unexpected rest %+v", rest)
		}
		if cap(rest) != len(rest) {
			t.Error("rest should be capacity-limited so appends never touch the page")
		}
	})

	t.Run("Nil And Empty Pages", func(t *testing.T) {
		var nilPage *ResultPage
		if nilPage.Len() != 0 {
			t.Error("nil page should have length 0")
		}
		if _, ok := nilPage.Banner(); ok {
			t.Error("nil page should have no banner")
		}
		if rest := (&ResultPage{Items: []Movie{{ID: 1}}}).Rest(); rest != nil {
			t.Errorf("single-item page should have no rest, got %+v", rest)
		}
	})
}

func TestMovie(t *testing.T) {
	m := Movie{ID: 42, ReleaseDate: "1999-03-31"}
	if m.Key() != "42" {
		t.Errorf("expected key 42, got %s", m.Key())
	}
	if m.Year() != "1999" {
		t.Errorf("expected year 1999, got %s", m.Year())
	}
	if (Movie{}).Year() != "" {
		t.Error("expected empty year for unknown release date")
	}
}

func TestSnapshot(t *testing.T) {
	t.Run("Copies Items", func(t *testing.T) {
		page := &ResultPage{Page: 1, Items: []Movie{{ID: 1, Title: "A"}}}
		snap := NewSnapshot(page, time.Now())

		page.Items[0].Title = "changed"
		if snap.Page().Items[0].Title != "A" {
			t.Error("snapshot should not share items with the source page")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		snap := NewSnapshot(&ResultPage{Items: []Movie{{ID: 1}, {ID: 2}}}, time.Now())
		if err := snap.Validate(); err == nil {
			t.Error("expected error without ID")
		}

		snap.SetID("abc")
		if err := snap.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		dup := NewSnapshot(&ResultPage{Items: []Movie{{ID: 1}, {ID: 1}}}, time.Now())
		dup.SetID("abc")
		if err := dup.Validate(); err == nil {
			t.Error("expected error for duplicate movie IDs")
		}

		zero := NewSnapshot(nil, time.Time{})
		zero.SetID("abc")
		if err := zero.Validate(); err == nil {
			t.Error("expected error for zero fetched_at")
		}
	})
}
