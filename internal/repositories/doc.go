// Package repositories implements SQLite persistence for fetched listings.
//
// A listing is stored as a [models.Snapshot] row plus one snapshot_movies row per item,
// keyed by position so the API order survives a round trip.
// Snapshots are soft-deleted via deleted_at and excluded from queries by default;
// [SnapshotRepository.Prune] removes rows for good.
//
// Sequence numbers give snapshots a stable, human-readable order (snapshot #12) independent of UUIDs.
// [NextSequence] atomically increments the per-table counter in the matching _sequence table.
package repositories
