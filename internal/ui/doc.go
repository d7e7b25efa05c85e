// Package ui implements an interactive terminal song browser using bubbletea's Elm architecture.
//
// The screen has three parts:
//  1. A header with the most frequent tags rendered as badges
//  2. A filterable list of song cards (title, likes, plays, tags)
//  3. A status line for download results
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Downloads run as commands, so several may be in flight; each reports back through a [MsgDownloadDone] message.
// A failed download leaves a toast in the status line until the next key press.
//
// Keyboard navigation uses vim-style bindings (j/k, d, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
