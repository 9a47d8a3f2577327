// Package tasks loads now-playing listings and runs long operations over them with progress reporting.
//
// # Loading
//
// [Loader.Load] performs one fetch through a [services.Catalog].
// A successful page is saved through the optional [SnapshotStore]; save failures are logged and never fail the load.
// When the fetch fails and a snapshot exists, the latest snapshot is returned marked stale.
// Without a snapshot the fetch error is returned unchanged.
//
// [Feed] wraps a Loader with the Loading, Ready and Failed states shown by the web view.
// A Feed ignores results that arrive after [Feed.Close] or that belong to a superseded load.
//
// # Progress Reporting
//
// Long operations such as [ExportImages] take a chan<- [ProgressUpdate].
// Updates use select with default so a slow or absent reader never blocks the work.
package tasks
