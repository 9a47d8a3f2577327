// Package services defines the [Catalog] interface for movie listing providers and implements it for TMDB.
//
// # Catalog Interface
//
// A Catalog returns one [models.ResultPage] per call. Callers treat the page as immutable and
// replace it wholesale on refetch.
//
// # TMDB Implementation
//
// [TMDBService] issues a single GET to /movie/now_playing. Two credential styles are supported:
//   - v3 API key: sent as the api_key query parameter
//   - v4 read access token: sent as a bearer token through an [oauth2.StaticTokenSource] client
//
// When both are configured the access token wins, so the key never appears in request URLs or logs.
//
// Requests are paced by a [rate.Limiter]; there are no retries and no timeout beyond the transport's.
//
// # Error Handling
//
// Every failure is returned as a [*FetchError], which matches [shared.ErrAPIRequest] with [errors.Is]:
//   - transport failures carry the underlying error and no status
//   - non-2xx responses carry the status and TMDB's status_message when present
//   - undecodable bodies carry the decode error and the status
//
// # Images
//
// [ImageURL] builds absolute CDN URLs from the relative paths in a listing.
// An empty path produces an empty URL and callers render a blank background.
package services
