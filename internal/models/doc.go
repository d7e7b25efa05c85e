// Package models defines domain entities and persistence interfaces for songwall.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): plain structs decoded from the upstream feed
//   - [Song] : a generated song with media URLs, free-text tags and engagement counts
//   - [FeedEntry] : the {"clip": ...} envelope the feed wraps each song in
//   - [TagCount] : one row of the tag-frequency summary
//
// 2. Persistent Entities: database-backed models
//   - [PersistedSong] : a cached [Song] with sequence, timestamps and soft delete
//
// Persistent entities implement [Model]; [Repository] is the generic CRUD contract repositories satisfy.
package models
