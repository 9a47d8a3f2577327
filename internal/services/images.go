package services

import (
	"strings"
)

// DefaultImageBaseURL is the TMDB image CDN.
const DefaultImageBaseURL = "https://image.tmdb.org/t/p"

// Image size tokens understood by the CDN.
const (
	SizeOriginal = "original"
	SizeW300     = "w300"
	SizeW500     = "w500"
	SizeW780     = "w780"
)

// ImageURL builds {base}/{size}/{path}. size defaults to [SizeOriginal] and base to [DefaultImageBaseURL].
//
// An empty path yields "" so callers can fall back to a blank background.
func ImageURL(base, path, size string) string {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return ""
	}
	if base == "" {
		base = DefaultImageBaseURL
	}
	if size == "" {
		size = SizeOriginal
	}
	return strings.TrimRight(base, "/") + "/" + size + "/" + path
}
