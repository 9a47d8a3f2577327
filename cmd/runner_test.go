package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
	tu "github.com/desertthunder/marquee/internal/testing"
	"github.com/urfave/cli/v3"
)

// testRunner returns a runner writing to a buffer with its database in a temp dir.
func testRunner(t *testing.T, catalog services.Catalog) (*Runner, *bytes.Buffer) {
	t.Helper()
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "marquee.db")

	output := &bytes.Buffer{}
	return NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Logger:  shared.NewLogger(&bytes.Buffer{}),
		Output:  output,
	}), output
}

func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "marquee", Commands: r.register()}
	return app.Run(t.Context(), append([]string{"marquee"}, args...))
}

func mustRun(t *testing.T, r *Runner, args ...string) {
	t.Helper()
	if err := run(t, r, args...); err != nil {
		t.Fatalf("%v: unexpected error %v", args, err)
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			catalog := tu.NewMockCatalog()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Catalog:    catalog,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.styled {
				t.Error("buffer output should not be styled")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
			if runner.catalog != nil {
				t.Error("expected no catalog")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("header is plain when not a terminal", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			runner.writePlainHeader("Title")
			if !strings.Contains(output.String(), "═══\nTitle\n═══") {
				t.Errorf("unexpected header %q", output.String())
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "movies", "cache", "tui", "serve"} {
			if !names[want] {
				t.Errorf("expected %q command", want)
			}
		}
	})
}

func TestMoviesCommands(t *testing.T) {
	t.Run("now-playing", func(t *testing.T) {
		runner, output := testRunner(t, tu.NewMockCatalog(tu.MakePage(3)))
		mustRun(t, runner, "movies", "now-playing")

		got := output.String()
		for _, want := range []string{"Now Playing", "In theatres 2025-09-01 to 2025-10-15", "Featured", "Movie 100", "Also showing", "Movie 102"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected %q in output:\n%s", want, got)
			}
		}
		if strings.Contains(got, "Offline copy") {
			t.Error("fresh listing should not be marked offline")
		}
	})

	t.Run("now-playing json", func(t *testing.T) {
		runner, output := testRunner(t, tu.NewMockCatalog(tu.MakePage(3)))
		mustRun(t, runner, "movies", "now-playing", "--json")

		var page models.ResultPage
		if err := json.Unmarshal(output.Bytes(), &page); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if page.Len() != 3 {
			t.Errorf("expected 3 movies, got %d", page.Len())
		}
	})

	t.Run("empty listing", func(t *testing.T) {
		runner, output := testRunner(t, tu.NewMockCatalog(tu.MakePage(0)))
		mustRun(t, runner, "movies", "now-playing")

		if !strings.Contains(output.String(), "Nothing is playing") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("without credentials", func(t *testing.T) {
		runner, _ := testRunner(t, nil)

		if err := run(t, runner, "movies", "now-playing"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("falls back to cached snapshot", func(t *testing.T) {
		catalog := tu.NewMockCatalog(tu.MakePage(4))
		runner, output := testRunner(t, catalog)
		mustRun(t, runner, "movies", "now-playing")

		catalog.SetErr(errors.New("connection refused"))
		output.Reset()
		mustRun(t, runner, "movies", "now-playing")

		got := output.String()
		if !strings.Contains(got, "Offline copy from") || !strings.Contains(got, "Movie 103") {
			t.Errorf("expected offline copy, got:\n%s", got)
		}
	})

	t.Run("offline flag", func(t *testing.T) {
		catalog := tu.NewMockCatalog(tu.MakePage(2))
		runner, output := testRunner(t, catalog)

		if err := run(t, runner, "movies", "now-playing", "--offline"); !errors.Is(err, shared.ErrSnapshotNotFound) {
			t.Fatalf("expected ErrSnapshotNotFound on an empty cache, got %v", err)
		}

		mustRun(t, runner, "movies", "now-playing")
		output.Reset()
		mustRun(t, runner, "movies", "now-playing", "--offline")

		if catalog.Calls() != 1 {
			t.Errorf("offline read should not fetch, got %d calls", catalog.Calls())
		}
		if !strings.Contains(output.String(), "Offline copy from") {
			t.Errorf("expected offline marker, got:\n%s", output.String())
		}
	})

	t.Run("show", func(t *testing.T) {
		runner, output := testRunner(t, tu.NewMockCatalog(tu.MakePage(3)))
		mustRun(t, runner, "movies", "show", "101")

		got := output.String()
		for _, want := range []string{
			"Movie 101",
			"Released: 2025-10-01",
			"Overview of movie 101",
			"Backdrop: https://image.tmdb.org/t/p/original/backdrop-101.jpg",
			"Poster:   https://image.tmdb.org/t/p/w500/poster-101.jpg",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("expected %q in output:\n%s", want, got)
			}
		}
	})

	t.Run("show unknown movie", func(t *testing.T) {
		runner, _ := testRunner(t, tu.NewMockCatalog(tu.MakePage(3)))

		if err := run(t, runner, "movies", "show", "999"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("show without id", func(t *testing.T) {
		runner, _ := testRunner(t, tu.NewMockCatalog(tu.MakePage(3)))

		if err := run(t, runner, "movies", "show"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("slider cycles every window", func(t *testing.T) {
		runner, output := testRunner(t, tu.NewMockCatalog(tu.MakePage(13)))
		mustRun(t, runner, "movies", "slider")

		got := output.String()
		if !strings.Contains(got, "Banner: Movie 100") {
			t.Errorf("expected banner header, got:\n%s", got)
		}
		first := strings.Index(got, "Window 1/2")
		second := strings.Index(got, "Window 2/2")
		if first < 0 || second < first {
			t.Fatalf("expected both windows in order, got:\n%s", got)
		}
		if !strings.Contains(got[first:second], "Movie 106") || strings.Contains(got[first:second], "Movie 107") {
			t.Errorf("unexpected first window:\n%s", got[first:second])
		}
		if !strings.Contains(got[second:], "Movie 112") {
			t.Errorf("unexpected second window:\n%s", got[second:])
		}
	})

	t.Run("slider single window", func(t *testing.T) {
		runner, output := testRunner(t, tu.NewMockCatalog(tu.MakePage(13)))
		mustRun(t, runner, "movies", "slider", "--window", "1")

		got := output.String()
		if !strings.Contains(got, "Movie 107") || strings.Contains(got, "Movie 101\n") {
			t.Errorf("expected only the second window, got:\n%s", got)
		}
	})

	t.Run("slider rejects bad flags", func(t *testing.T) {
		runner, _ := testRunner(t, tu.NewMockCatalog(tu.MakePage(13)))

		if err := run(t, runner, "movies", "slider", "--window", "5"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag for window, got %v", err)
		}
		if err := run(t, runner, "movies", "slider", "--size=-2"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag for size, got %v", err)
		}
	})
}

func TestMoviesExport(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		t.Chdir(t.TempDir())
		runner, _ := testRunner(t, tu.NewMockCatalog(tu.MakePage(3)))
		mustRun(t, runner, "movies", "export", "--format", "text")

		tu.AssertFileExists(t, "now_playing.txt")
	})

	t.Run("csv", func(t *testing.T) {
		t.Chdir(t.TempDir())
		runner, _ := testRunner(t, tu.NewMockCatalog(tu.MakePage(3)))
		mustRun(t, runner, "movies", "export", "-f", "csv", "-o", "listing")

		tu.AssertFileExists(t, "listing_movies.csv")
		tu.AssertFileExists(t, "listing_metadata.json")
	})

	t.Run("images", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("jpeg"))
		}))
		defer srv.Close()

		runner, output := testRunner(t, tu.NewMockCatalog(tu.MakePage(3)))
		runner.config.Credentials.TMDB.ImageBaseURL = srv.URL
		dir := filepath.Join(t.TempDir(), "images")

		mustRun(t, runner, "movies", "export", "--format", "images", "--output", dir)

		got := output.String()
		if !strings.Contains(got, "Saved 3 of 3 images") {
			t.Errorf("unexpected summary:\n%s", got)
		}
		if !strings.Contains(got, "/3] ✓ Movie 10") {
			t.Errorf("expected per-image progress lines, got:\n%s", got)
		}
		if strings.Contains(got, "] [") {
			t.Errorf("step counter printed twice:\n%s", got)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "manifest.json"))
	})

	t.Run("unknown format", func(t *testing.T) {
		runner, _ := testRunner(t, tu.NewMockCatalog(tu.MakePage(3)))

		if err := run(t, runner, "movies", "export", "--format", "pdf"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestCacheCommands(t *testing.T) {
	runner, output := testRunner(t, tu.NewMockCatalog(tu.MakePage(2), tu.MakePage(5)))
	mustRun(t, runner, "movies", "now-playing")
	mustRun(t, runner, "movies", "now-playing")

	t.Run("list", func(t *testing.T) {
		output.Reset()
		mustRun(t, runner, "cache", "list")

		got := output.String()
		newer, older := strings.Index(got, "#2"), strings.Index(got, "#1")
		if newer < 0 || older < 0 || newer > older {
			t.Errorf("expected #2 before #1, got:\n%s", got)
		}
	})

	t.Run("show latest", func(t *testing.T) {
		output.Reset()
		mustRun(t, runner, "cache", "show")

		got := output.String()
		if !strings.Contains(got, "Snapshot #2") || !strings.Contains(got, "Movies:  5") {
			t.Errorf("unexpected output:\n%s", got)
		}
	})

	t.Run("show by sequence", func(t *testing.T) {
		output.Reset()
		mustRun(t, runner, "cache", "show", "--sequence", "1", "--json")

		var sum snapshotSummary
		if err := json.Unmarshal(output.Bytes(), &sum); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if sum.Sequence != 1 || sum.Movies != 2 || sum.Page == nil {
			t.Errorf("unexpected summary %+v", sum)
		}
	})

	t.Run("show missing sequence", func(t *testing.T) {
		if err := run(t, runner, "cache", "show", "--sequence", "42"); !errors.Is(err, shared.ErrSnapshotNotFound) {
			t.Errorf("expected ErrSnapshotNotFound, got %v", err)
		}
	})

	t.Run("prune with retention disabled", func(t *testing.T) {
		keep := runner.config.Database.KeepSnapshots
		runner.config.Database.KeepSnapshots = 0
		defer func() { runner.config.Database.KeepSnapshots = keep }()

		output.Reset()
		mustRun(t, runner, "cache", "prune")
		if !strings.Contains(output.String(), "nothing removed") {
			t.Errorf("unexpected output %q", output.String())
		}

		output.Reset()
		mustRun(t, runner, "cache", "list", "--json")

		var list []snapshotSummary
		if err := json.Unmarshal(output.Bytes(), &list); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if len(list) != 2 {
			t.Errorf("expected both snapshots to remain, got %+v", list)
		}
	})

	t.Run("prune", func(t *testing.T) {
		output.Reset()
		mustRun(t, runner, "cache", "prune", "--keep", "1")

		if !strings.Contains(output.String(), "Removed 1 snapshot(s)") {
			t.Errorf("unexpected output %q", output.String())
		}

		output.Reset()
		mustRun(t, runner, "cache", "list", "--json")

		var list []snapshotSummary
		if err := json.Unmarshal(output.Bytes(), &list); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if len(list) != 1 || list[0].Sequence != 2 {
			t.Errorf("expected only snapshot 2 to remain, got %+v", list)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		runner, output := testRunner(t, nil)
		path := filepath.Join(t.TempDir(), "config.toml")

		mustRun(t, runner, "setup", "config", "--config", path)
		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), "Wrote "+path) {
			t.Errorf("unexpected output %q", output.String())
		}

		if err := run(t, runner, "setup", "config", "--config", path); err != nil {
			t.Errorf("existing config should not be an error, got %v", err)
		}
	})

	t.Run("database", func(t *testing.T) {
		t.Chdir(t.TempDir())
		runner, _ := testRunner(t, nil)

		mustRun(t, runner, "setup", "database", "--config", "config.toml")
		tu.AssertFileExists(t, "config.toml")
		tu.AssertFileExists(t, "marquee.db")
	})

	t.Run("status and rollback", func(t *testing.T) {
		runner, output := testRunner(t, nil)

		mustRun(t, runner, "setup", "status")
		if !strings.Contains(output.String(), "[ ] 0001 create_snapshots") {
			t.Errorf("expected pending migration, got:\n%s", output.String())
		}

		db, err := runner.openDatabase()
		if err != nil {
			t.Fatalf("openDatabase() error = %v", err)
		}
		db.Close()

		output.Reset()
		mustRun(t, runner, "setup", "status")
		if !strings.Contains(output.String(), "[✓] 0001 create_snapshots") {
			t.Errorf("expected applied migration, got:\n%s", output.String())
		}

		mustRun(t, runner, "setup", "rollback")
		output.Reset()
		mustRun(t, runner, "setup", "status")
		if !strings.Contains(output.String(), "[ ] 0001 create_snapshots") {
			t.Errorf("expected migration rolled back, got:\n%s", output.String())
		}

		if err := run(t, runner, "setup", "rollback"); err == nil {
			t.Error("expected an error with nothing to roll back")
		}
	})
}
