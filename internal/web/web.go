// Package web serves the song wall over HTTP with server-rendered HTML.
//
// # Views
//
// The page is a single gallery: a tag summary followed by one card per cached song. Each card links to a
// minimal detail page and carries a download button.
//
// Routes
//
//	GET /               → Gallery page
//	GET /detail/{id}    → Song detail (title, cover, player)
//	GET /api/tags       → JSON tag summary, ?limit=N
//	GET /download/{id}  → Audio as an attachment named audio.mp3
//
// Templates
//
//   - base.html: Layout, download script and toast container
//   - gallery.html: Tag badges and song cards
//   - detail.html: Single song view
//
// Templates are embedded and parsed once by [NewGallery].
//
// # Downloads
//
// The download route drives a [download.Trigger] whose save capability writes the blob into the response
// ([HTTPSaver]) and whose notifier answers 502 with an HX-Trigger "toast" event ([ToastNotifier]). The page
// script saves a successful response as audio.mp3 and shows the toast message otherwise.
package web
