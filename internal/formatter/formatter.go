// package formatter exports now-playing listings to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
)

const listingTitle = "Now Playing"

// slot names the part of the screen an item occupies: the banner for index 0, the slider otherwise.
func slot(i int) string {
	if i == 0 {
		return "banner"
	}
	return "slider"
}

// ExportToCSV converts a ResultPage to CSV with columns: Position, Slot, ID, Title, Release Date, Rating, Language, Backdrop, Poster
func ExportToCSV(page *models.ResultPage) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Slot", "ID", "Title", "Release Date", "Rating", "Language", "Backdrop", "Poster"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	if page != nil {
		for i, m := range page.Items {
			record := []string{
				strconv.Itoa(i),
				slot(i),
				m.Key(),
				m.Title,
				m.ReleaseDate,
				strconv.FormatFloat(m.VoteAverage, 'f', 1, 64),
				m.OriginalLanguage,
				m.BackdropPath,
				m.PosterPath,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a ResultPage to Markdown with an optional cover image.
func ExportToMarkdown(page *models.ResultPage, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", listingTitle))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	if page == nil {
		buf.WriteString("_No movies._\n")
		return buf.Bytes(), nil
	}

	if page.Dates.Minimum != "" || page.Dates.Maximum != "" {
		buf.WriteString(fmt.Sprintf("**In theatres**: %s to %s\n", page.Dates.Minimum, page.Dates.Maximum))
	}
	buf.WriteString(fmt.Sprintf("**Movies**: %d (page %d of %d, %d total)\n\n", page.Len(), page.Page, page.TotalPages, page.TotalResults))

	banner, ok := page.Banner()
	if !ok {
		buf.WriteString("_No movies._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString(fmt.Sprintf("## %s\n\n", banner.Title))
	if banner.Overview != "" {
		buf.WriteString(banner.Overview + "\n\n")
	}

	rest := page.Rest()
	if len(rest) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("## Also Showing\n\n")
	for i, m := range rest {
		yearPart := ""
		if y := m.Year(); y != "" {
			yearPart = fmt.Sprintf(" (%s)", y)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s [%.1f]\n", i+1, m.Title, yearPart, m.VoteAverage))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a ResultPage to plain text format
func ExportToText(page *models.ResultPage) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s: %d movies\n\n", listingTitle, page.Len()))

	if page != nil {
		for i, m := range page.Items {
			buf.WriteString(fmt.Sprintf("%d. [%s] %s (%s)\n", i, slot(i), m.Title, m.Key()))
		}
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
	}
	return FetchImage(context.Background(), client, url)
}

// FetchImage downloads url with client, honouring ctx.
func FetchImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// pageMetadata is the listing without its items.
type pageMetadata struct {
	Title        string       `json:"title"`
	Dates        models.Dates `json:"dates"`
	Page         int          `json:"page"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
	Count        int          `json:"count"`
	BannerID     int          `json:"banner_id,omitempty"`
}

// ToMetadataJSON generates a JSON representation of listing metadata (without movies)
func ToMetadataJSON(page *models.ResultPage) ([]byte, error) {
	meta := pageMetadata{Title: listingTitle}
	if page != nil {
		meta.Dates = page.Dates
		meta.Page = page.Page
		meta.TotalPages = page.TotalPages
		meta.TotalResults = page.TotalResults
		meta.Count = page.Len()
	}
	if banner, ok := page.Banner(); ok {
		meta.BannerID = banner.ID
	}
	return shared.MarshalJSON(meta, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	MoviesFile   string
	MetadataFile string
}

// WriteCSVExport exports a listing to CSV format with accompanying metadata JSON file.
//
// Defaults to "now_playing" as the base filename & creates {base}_movies.csv and {base}_metadata.json
func WriteCSVExport(page *models.ResultPage, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "now_playing"
	}

	csvData, err := ExportToCSV(page)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	moviesFile := baseFilepath + "_movies.csv"
	if err := os.WriteFile(moviesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(page)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		MoviesFile:   moviesFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a listing to Markdown format in a dedicated directory.
//
// The imageURL parameter is optional. When set, the image is saved as cover.jpg;
// a failed download only logs a warning.
// Creates {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(page *models.ResultPage, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "now_playing"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			log.Warn("failed to download cover image", "url", imageURL, "error", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				log.Warn("failed to save cover image", "path", coverImagePath, "error", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(page, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a listing to plain text format.
//
// Defaults to now_playing.txt as the filename.
func WriteTextExport(page *models.ResultPage, path string) (string, error) {
	if path == "" {
		path = "now_playing.txt"
	}

	textData, err := ExportToText(page)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}
