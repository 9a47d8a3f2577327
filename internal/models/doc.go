// Package models defines domain entities and persistence interfaces for marquee.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): immutable values decoded from the TMDB API
//   - [Movie] : a single title in a now-playing listing
//   - [ResultPage] : one page of results; the first item is the banner, the rest feed the slider
//   - [Dates] : the release window TMDB reports for the listing
//
// 2. Persistent Entities: database-backed models with full lifecycle management
//   - [Snapshot] : a stored copy of a [ResultPage] used when the API is unreachable
//
// Persistent entities implement the [Model] interface providing ID, timestamps, and validation.
// The [Repository] interface defines the operations for database access.
package models
