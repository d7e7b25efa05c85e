// Package tasks runs background work against the upstream song feed with progress reporting.
//
// # Sync
//
// [SyncEngine.Sync] pulls a number of feed pages and writes every song into the local cache:
//   - pages are fetched concurrently, bounded by a worker limit (errgroup) and a request rate (rate.Limiter)
//   - songs are cached afterwards in page order so the cache keeps feed order
//   - a failing page is recorded in [SyncResult.FailedPages] and does not abort the others
//
// # Progress Reporting
//
// Updates are sent on an optional channel with a non-blocking send; a slow or absent reader never stalls a sync.
package tasks
