package tasks

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/marquee/internal/formatter"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Image kinds written by [ExportImages].
const (
	KindBackdrop = "backdrop"
	KindPoster   = "poster"
)

// ExportImagesOpts contains configuration for image exports.
type ExportImagesOpts struct {
	OutputDir    string       // Base output directory (default: marquee_images_{epoch})
	ImageBaseURL string       // CDN base (default: services.DefaultImageBaseURL)
	Size         string       // CDN size token (default: services.SizeW780)
	Posters      bool         // Also download posters
	NumWorkers   int          // Concurrent downloads (default: 4, max: 10)
	RateLimit    float64      // Downloads per second (default: 5)
	Client       *http.Client // HTTP client (default: 30s timeout)
}

// ImageExportResult is the outcome for one image.
type ImageExportResult struct {
	MovieID int    `json:"movie_id"`
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	URL     string `json:"url"`
	Path    string `json:"path,omitempty"`
	Success bool   `json:"success"`
	Error   error  `json:"-"`
	Message string `json:"error,omitempty"`
}

// ExportImagesResult summarizes an image export.
type ExportImagesResult struct {
	Total           int                 `json:"total"`
	Succeeded       int                 `json:"succeeded"`
	Failed          int                 `json:"failed"`
	Skipped         int                 `json:"skipped"`
	OutputDirectory string              `json:"output_directory"`
	ManifestPath    string              `json:"-"`
	Results         []ImageExportResult `json:"results"`
}

type imageJob struct {
	index int
	movie models.Movie
	kind  string
	url   string
}

// ExportImages downloads the backdrop (and optionally poster) of every movie on page.
//
// Downloads run on a bounded worker pool paced by a rate limiter. Individual failures are recorded,
// not returned. Movies without an image path are counted as skipped.
// A manifest.json summarizing the results is written to the output directory.
func ExportImages(ctx context.Context, prog chan<- ProgressUpdate, page *models.ResultPage, opts ExportImagesOpts) (*ExportImagesResult, error) {
	if page.Len() == 0 {
		return nil, fmt.Errorf("%w: no movies to export", shared.ErrInvalidInput)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("marquee_images_%d", time.Now().Unix())
	}
	if opts.Size == "" {
		opts.Size = services.SizeW780
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 30 * time.Second}
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs, skipped := imageJobs(page, opts)
	result := &ExportImagesResult{
		Total:           len(jobs),
		Skipped:         skipped,
		OutputDirectory: opts.OutputDir,
		Results:         make([]ImageExportResult, len(jobs)),
	}

	sendProgress(prog, exportStartedUpdate(len(jobs)))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	var (
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.NumWorkers)

	for _, job := range jobs {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}

			res := downloadImage(gctx, opts, job)

			mu.Lock()
			defer mu.Unlock()
			result.Results[job.index] = res
			completed++
			if res.Success {
				result.Succeeded++
				sendProgress(prog, imageSavedUpdate(completed, len(jobs), res))
			} else {
				result.Failed++
				sendProgress(prog, imageFailedUpdate(completed, len(jobs), res))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("image export interrupted: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	return result, nil
}

// imageJobs lists one job per available image in page order.
func imageJobs(page *models.ResultPage, opts ExportImagesOpts) ([]imageJob, int) {
	var (
		jobs    []imageJob
		skipped int
	)

	add := func(m models.Movie, kind, path string) {
		url := services.ImageURL(opts.ImageBaseURL, path, opts.Size)
		if url == "" {
			skipped++
			return
		}
		jobs = append(jobs, imageJob{index: len(jobs), movie: m, kind: kind, url: url})
	}

	for _, m := range page.Items {
		add(m, KindBackdrop, m.BackdropPath)
		if opts.Posters {
			add(m, KindPoster, m.PosterPath)
		}
	}

	return jobs, skipped
}

func downloadImage(ctx context.Context, opts ExportImagesOpts, job imageJob) ImageExportResult {
	res := ImageExportResult{
		MovieID: job.movie.ID,
		Title:   job.movie.Title,
		Kind:    job.kind,
		URL:     job.url,
	}

	data, err := formatter.FetchImage(ctx, opts.Client, job.url)
	if err != nil {
		res.Error = err
		res.Message = err.Error()
		return res
	}

	ext := filepath.Ext(job.url)
	if ext == "" || strings.ContainsAny(ext, "/?") {
		ext = ".jpg"
	}
	path := filepath.Join(opts.OutputDir, fmt.Sprintf("%d_%s%s", job.movie.ID, job.kind, ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		res.Error = fmt.Errorf("failed to write image: %w", err)
		res.Message = res.Error.Error()
		return res
	}

	res.Path = path
	res.Success = true
	return res
}
