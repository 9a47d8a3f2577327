// TMDB (The Movie Database) implementation of [Catalog]
//
// Response types based on https://developer.themoviedb.org/reference/movie-now-playing-list
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultTMDBBaseURL = "https://api.themoviedb.org/3"
	nowPlayingEndpoint = "/movie/now_playing"
)

// tmdbStatus is the error body TMDB returns alongside non-2xx statuses.
type tmdbStatus struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       *bool  `json:"success"`
}

// TMDBService implements the Catalog interface for The Movie Database.
type TMDBService struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	bearer       bool
	language     string
	region       string
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *log.Logger
}

var _ Catalog = (*TMDBService)(nil)

// TMDBOption configures a [TMDBService].
type TMDBOption func(*TMDBService)

// WithHTTPClient sets the underlying HTTP client. With an access token it becomes the base transport of the bearer client.
func WithHTTPClient(c *http.Client) TMDBOption {
	return func(t *TMDBService) {
		if c != nil {
			t.httpClient = c
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) TMDBOption {
	return func(t *TMDBService) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTMDBService creates a TMDB catalog from cfg. At least one of APIKey and AccessToken must be set.
func NewTMDBService(cfg shared.TMDBConfig, opts ...TMDBOption) (*TMDBService, error) {
	if cfg.APIKey == "" && cfg.AccessToken == "" {
		return nil, fmt.Errorf("%w: set credentials.tmdb.api_key or %s", shared.ErrMissingCredentials, shared.EnvTMDBAPIKey)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultTMDBBaseURL
	}

	t := &TMDBService{
		baseURL:      baseURL,
		imageBaseURL: cfg.ImageBaseURL,
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		region:       cfg.Region,
		httpClient:   http.DefaultClient,
		limiter:      rate.NewLimiter(rate.Inf, 1),
		logger:       shared.NewLogger(io.Discard),
	}

	for _, opt := range opts {
		opt(t)
	}

	if cfg.RateLimit > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	if cfg.AccessToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, t.httpClient)
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"})
		t.httpClient = oauth2.NewClient(ctx, src)
		t.bearer = true
	}

	return t, nil
}

// Name returns the catalog name.
func (t *TMDBService) Name() string {
	return "TMDB"
}

// Image returns the CDN URL for a relative image path at the given size.
func (t *TMDBService) Image(path, size string) string {
	return ImageURL(t.imageBaseURL, path, size)
}

// NowPlaying fetches the first page of movies currently in theatres.
//
// Calls GET /movie/now_playing.
func (t *TMDBService) NowPlaying(ctx context.Context) (*models.ResultPage, error) {
	var page models.ResultPage
	if err := t.doRequest(ctx, nowPlayingEndpoint, nil, &page); err != nil {
		return nil, err
	}

	t.logger.Debug("fetched now playing", "items", len(page.Items), "page", page.Page, "total_pages", page.TotalPages)
	return &page, nil
}

func (t *TMDBService) query(params url.Values) url.Values {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	if !t.bearer {
		q.Set("api_key", t.apiKey)
	}
	if t.language != "" {
		q.Set("language", t.language)
	}
	if t.region != "" {
		q.Set("region", t.region)
	}
	return q
}

func (t *TMDBService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}

	apiURL := t.baseURL + endpoint + "?" + t.query(params).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", redact(err))}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("request failed: %w", redact(err))}
	}
	defer resp.Body.Close()

	t.logger.Debug("tmdb request", "endpoint", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var status tmdbStatus
		if err := json.NewDecoder(resp.Body).Decode(&status); err == nil && status.StatusMessage != "" {
			return &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: status.StatusMessage}
		}
		return &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}

// redact strips the query string from URLs embedded in transport errors so the API key never reaches logs.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if u, perr := url.Parse(ue.URL); perr == nil {
			u.RawQuery = ""
			ue.URL = u.String()
		}
	}
	return err
}
