// Package services talks to the HTTP APIs songwall depends on.
//
// # Song feed
//
// [FeedService] implements [SongSource] over the upstream JSON feed:
//
//	GET {base}/api/feed?page=N  → [{"clip": {...song...}}, ...]
//
// Non-2xx responses become errors carrying the upstream "detail" message when one is provided.
//
// # Audio
//
// [AudioService] implements download.Fetcher: it GETs an audio URL and returns the body as a blob.
// It deliberately does not retry; callers decide what a failure means.
package services
