// Package repositories implements SQLite persistence for cached songs.
//
// [SongRepository] handles CRUD with soft deletes via deleted_at; deleted rows are excluded from every query.
// [SongCacheAdapter] layers an upsert keyed by the upstream clip ID on top, which is what sync uses.
//
// Sequence numbers preserve feed order independently of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
