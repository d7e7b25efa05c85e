// Package tags computes the tag-frequency summary shown above the song grid.
//
// Songs carry their tags as one free-text, comma-separated string. [Split] turns that string into clean
// tag names (trimmed, empties dropped) and never fails on malformed input. [Aggregate] counts every tag
// across a song list and returns the most frequent ones, highest count first.
//
// # Counting mode
//
// The legacy front-end incremented each tag twice per occurrence, doubling every displayed count.
// [Aggregate] counts true occurrences unless [WithDoubleCount] asks for the legacy numbers.
//
// # Ordering
//
// Ties keep the order in which tags were first seen while walking the songs front to back.
// The result is recomputed on every call; nothing is cached and the input is never modified.
package tags
