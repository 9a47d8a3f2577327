package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/marquee/internal/shared"
	tu "github.com/desertthunder/marquee/internal/testing"
)

func newTestService(t *testing.T, srv *httptest.Server, cfg shared.TMDBConfig) *TMDBService {
	t.Helper()
	cfg.BaseURL = srv.URL
	svc, err := NewTMDBService(cfg, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestTMDBService(t *testing.T) {
	t.Run("NewTMDBService", func(t *testing.T) {
		t.Run("Missing Credentials", func(t *testing.T) {
			_, err := NewTMDBService(shared.TMDBConfig{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Defaults", func(t *testing.T) {
			svc, err := NewTMDBService(shared.TMDBConfig{APIKey: "k"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.baseURL != defaultTMDBBaseURL {
				t.Errorf("expected default base URL, got %s", svc.baseURL)
			}
			if svc.Name() != "TMDB" {
				t.Errorf("expected name TMDB, got %s", svc.Name())
			}
		})

		t.Run("Trailing Slash Trimmed", func(t *testing.T) {
			svc, err := NewTMDBService(shared.TMDBConfig{APIKey: "k", BaseURL: "http://example.test/3/"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.baseURL != "http://example.test/3" {
				t.Errorf("unexpected base URL %s", svc.baseURL)
			}
		})
	})

	t.Run("NowPlaying", func(t *testing.T) {
		t.Run("Decodes Page With API Key", func(t *testing.T) {
			var gotPath, gotKey, gotLang, gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotKey = r.URL.Query().Get("api_key")
				gotLang = r.URL.Query().Get("language")
				gotAuth = r.Header.Get("Authorization")
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, tu.NowPlayingJSON)
			}))
			defer srv.Close()

			svc := newTestService(t, srv, shared.TMDBConfig{APIKey: "secret", Language: "en-US"})
			page, err := svc.NowPlaying(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotPath != "/movie/now_playing" {
				t.Errorf("unexpected path %s", gotPath)
			}
			if gotKey != "secret" {
				t.Errorf("expected api_key param, got %q", gotKey)
			}
			if gotLang != "en-US" {
				t.Errorf("expected language param, got %q", gotLang)
			}
			if gotAuth != "" {
				t.Errorf("expected no Authorization header, got %q", gotAuth)
			}

			if page.Len() != 3 {
				t.Fatalf("expected 3 items, got %d", page.Len())
			}
			if page.Items[0].ID != 1011 || page.Items[0].Title != "Banner Movie" {
				t.Errorf("unexpected first item %+v", page.Items[0])
			}
			if page.Items[1].PosterPath != "" {
				t.Errorf("expected null poster to decode as empty, got %q", page.Items[1].PosterPath)
			}
			if page.TotalPages != 12 || page.TotalResults != 228 {
				t.Errorf("unexpected totals %d/%d", page.TotalPages, page.TotalResults)
			}
			if page.Dates.Minimum != "2025-09-03" {
				t.Errorf("unexpected dates %+v", page.Dates)
			}
		})

		t.Run("Bearer Token Wins Over API Key", func(t *testing.T) {
			var gotKey, gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotKey = r.URL.Query().Get("api_key")
				gotAuth = r.Header.Get("Authorization")
				io.WriteString(w, tu.NowPlayingJSON)
			}))
			defer srv.Close()

			svc := newTestService(t, srv, shared.TMDBConfig{APIKey: "secret", AccessToken: "tok"})
			if _, err := svc.NowPlaying(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotAuth != "Bearer tok" {
				t.Errorf("expected bearer header, got %q", gotAuth)
			}
			if gotKey != "" {
				t.Errorf("expected no api_key param, got %q", gotKey)
			}
		})

		t.Run("Region Param", func(t *testing.T) {
			var gotRegion string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotRegion = r.URL.Query().Get("region")
				io.WriteString(w, tu.NowPlayingJSON)
			}))
			defer srv.Close()

			svc := newTestService(t, srv, shared.TMDBConfig{APIKey: "k", Region: "GB"})
			if _, err := svc.NowPlaying(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if gotRegion != "GB" {
				t.Errorf("expected region GB, got %q", gotRegion)
			}
		})

		t.Run("Status Error With Message", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, `{"status_code":7,"status_message":"Invalid API key: You must be granted a valid key.","success":false}`)
			}))
			defer srv.Close()

			svc := newTestService(t, srv, shared.TMDBConfig{APIKey: "bad"})
			_, err := svc.NowPlaying(context.Background())

			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FetchError, got %T", err)
			}
			if !fe.IsUnauthorized() {
				t.Errorf("expected unauthorized, got status %d", fe.StatusCode)
			}
			if !strings.Contains(fe.Message, "Invalid API key") {
				t.Errorf("expected status message, got %q", fe.Message)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Error("expected error to wrap ErrAPIRequest")
			}
			if fe.Transient() {
				t.Error("401 should not be transient")
			}
		})

		t.Run("Status Error Without Body", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer srv.Close()

			svc := newTestService(t, srv, shared.TMDBConfig{APIKey: "k"})
			_, err := svc.NowPlaying(context.Background())

			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FetchError, got %T", err)
			}
			if fe.StatusCode != http.StatusBadGateway || fe.Message != "" {
				t.Errorf("unexpected error %+v", fe)
			}
			if !fe.Transient() {
				t.Error("502 should be transient")
			}
		})

		t.Run("Malformed Body", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"results": [`)
			}))
			defer srv.Close()

			svc := newTestService(t, srv, shared.TMDBConfig{APIKey: "k"})
			_, err := svc.NowPlaying(context.Background())
			if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
				t.Errorf("expected decode error, got %v", err)
			}
		})

		t.Run("Transport Error Redacts Key", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			svc, err := NewTMDBService(shared.TMDBConfig{APIKey: "supersecret", BaseURL: "http://tmdb.test/3"}, WithHTTPClient(client))
			if err != nil {
				t.Fatalf("failed to create service: %v", err)
			}

			_, err = svc.NowPlaying(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if strings.Contains(err.Error(), "supersecret") {
				t.Errorf("error leaked api key: %v", err)
			}

			var fe *FetchError
			if !errors.As(err, &fe) || fe.StatusCode != 0 || !fe.Transient() {
				t.Errorf("expected transient FetchError, got %v", err)
			}
		})

		t.Run("Body Read Failure", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
			client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
			svc, err := NewTMDBService(shared.TMDBConfig{APIKey: "k", BaseURL: "http://tmdb.test/3"}, WithHTTPClient(client))
			if err != nil {
				t.Fatalf("failed to create service: %v", err)
			}

			if _, err := svc.NowPlaying(context.Background()); err == nil {
				t.Error("expected error for unreadable body")
			}
		})

		t.Run("Cancelled Context", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tu.NowPlayingJSON)
			}))
			defer srv.Close()

			svc := newTestService(t, srv, shared.TMDBConfig{APIKey: "k"})
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := svc.NowPlaying(ctx)
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		})

		t.Run("Rate Limited", func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				io.WriteString(w, tu.NowPlayingJSON)
			}))
			defer srv.Close()

			svc := newTestService(t, srv, shared.TMDBConfig{APIKey: "k", RateLimit: 0.001})
			if _, err := svc.NowPlaying(context.Background()); err != nil {
				t.Fatalf("first call should pass the limiter: %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			if _, err := svc.NowPlaying(ctx); err == nil {
				t.Error("expected limiter to refuse the second call before the deadline")
			}
			if calls != 1 {
				t.Errorf("expected 1 upstream call, got %d", calls)
			}
		})
	})

	t.Run("Image", func(t *testing.T) {
		svc, err := NewTMDBService(shared.TMDBConfig{APIKey: "k", ImageBaseURL: "https://img.test/t/p/"})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}
		if got := svc.Image("/a.jpg", SizeW500); got != "https://img.test/t/p/w500/a.jpg" {
			t.Errorf("unexpected image URL %s", got)
		}
	})
}

func TestFetchError(t *testing.T) {
	tests := []struct {
		name string
		err  *FetchError
		want string
	}{
		{"Status And Message", &FetchError{Endpoint: "/x", StatusCode: 404, Message: "gone"}, "status 404: gone"},
		{"Status Only", &FetchError{Endpoint: "/x", StatusCode: 500}, "status 500"},
		{"Transport", &FetchError{Endpoint: "/x", Err: errors.New("boom")}, "/x: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, tt.err.Error())
			}
			if !errors.Is(tt.err, shared.ErrAPIRequest) {
				t.Error("expected ErrAPIRequest in chain")
			}
		})
	}

	t.Run("IsNotFound", func(t *testing.T) {
		if !(&FetchError{StatusCode: 404}).IsNotFound() {
			t.Error("expected 404 to be not found")
		}
	})
}

func TestHint(t *testing.T) {
	wrapped := func(fe *FetchError) error { return fmt.Errorf("failed to load now playing: %w", fe) }

	tests := []struct {
		name      string
		err       error
		hint      string
		retryable bool
	}{
		{"Unauthorized", wrapped(&FetchError{StatusCode: http.StatusUnauthorized}), "credentials.tmdb.api_key", false},
		{"Forbidden", &FetchError{StatusCode: http.StatusForbidden}, shared.EnvTMDBAPIKey, false},
		{"Not Found", wrapped(&FetchError{StatusCode: http.StatusNotFound}), "credentials.tmdb.base_url", false},
		{"Rate Limited", &FetchError{StatusCode: http.StatusTooManyRequests}, "", true},
		{"Server Error", wrapped(&FetchError{StatusCode: http.StatusServiceUnavailable}), "", true},
		{"Transport", &FetchError{Err: errors.New("connection refused")}, "", true},
		{"Other Error", errors.New("disk full"), "", true},
		{"Nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := Hint(tt.err)
			if tt.hint == "" && hint != "" {
				t.Errorf("expected no hint, got %q", hint)
			}
			if !strings.Contains(hint, tt.hint) {
				t.Errorf("expected hint containing %q, got %q", tt.hint, hint)
			}
			if got := Retryable(tt.err); got != tt.retryable {
				t.Errorf("Retryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}
