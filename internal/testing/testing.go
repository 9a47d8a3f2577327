// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/marquee/internal/models"
)

// MockCatalog is a test double for [services.Catalog].
//
// Pages are returned in order on successive calls; the last one repeats. Err, when set, wins.
type MockCatalog struct {
	mu    sync.Mutex
	Pages []*models.ResultPage
	Err   error
	calls int
}

func NewMockCatalog(pages ...*models.ResultPage) *MockCatalog {
	return &MockCatalog{Pages: pages}
}

func (m *MockCatalog) NowPlaying(ctx context.Context) (*models.ResultPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Pages) == 0 {
		return &models.ResultPage{Page: 1}, nil
	}
	idx := min(m.calls-1, len(m.Pages)-1)
	return m.Pages[idx], nil
}

func (m *MockCatalog) Name() string { return "mock" }

// Calls reports how many times NowPlaying was invoked.
func (m *MockCatalog) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// SetErr swaps the error returned by subsequent calls.
func (m *MockCatalog) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// MakeMovies returns n movies with IDs starting at 100 and image paths derived from the ID.
func MakeMovies(n int) []models.Movie {
	movies := make([]models.Movie, n)
	for i := range movies {
		id := 100 + i
		movies[i] = models.Movie{
			ID:           id,
			Title:        fmt.Sprintf("Movie %d", id),
			Overview:     fmt.Sprintf("Overview of movie %d", id),
			BackdropPath: fmt.Sprintf("/backdrop-%d.jpg", id),
			PosterPath:   fmt.Sprintf("/poster-%d.jpg", id),
			ReleaseDate:  "2025-10-01",
			VoteAverage:  7.5,
		}
	}
	return movies
}

// MakePage wraps [MakeMovies] in a first-page listing.
func MakePage(n int) *models.ResultPage {
	return &models.ResultPage{
		Dates:        models.Dates{Minimum: "2025-09-01", Maximum: "2025-10-15"},
		Page:         1,
		Items:        MakeMovies(n),
		TotalPages:   1,
		TotalResults: n,
	}
}

// NowPlayingJSON is a trimmed TMDB now_playing response body with three results.
const NowPlayingJSON = `{
  "dates": {"maximum": "2025-10-15", "minimum": "2025-09-03"},
  "page": 1,
  "results": [
    {"id": 1011, "title": "Banner Movie", "overview": "The hero.", "backdrop_path": "/banner.jpg", "poster_path": "/banner-p.jpg", "release_date": "2025-09-12", "vote_average": 7.1, "original_language": "en", "adult": false},
    {"id": 1022, "title": "Second", "overview": "Two.", "backdrop_path": "/second.jpg", "poster_path": null, "release_date": "2025-09-19", "vote_average": 6.4, "original_language": "fr"},
    {"id": 1033, "title": "Third", "overview": "", "backdrop_path": null, "poster_path": "/third-p.jpg", "release_date": "", "vote_average": 0, "original_language": "ja"}
  ],
  "total_pages": 12,
  "total_results": 228
}`

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
