// Package download fetches a song's audio and hands it to a platform-specific save capability.
//
// A [Trigger] wires three collaborators together:
//   - [Fetcher] retrieves the audio as an opaque [Blob]
//   - [Saver] persists the blob under a filename (a file on disk, an HTTP attachment, ...)
//   - [Notifier] surfaces a single user-facing error message when anything goes wrong
//
// Failures never propagate to the caller: they are logged with full detail and reported once through the
// [Notifier] with the fixed [ErrorMessage]. There are no retries. [Trigger.Start] runs a download in its own
// goroutine; concurrent downloads share no state and are not coordinated with each other.
package download
