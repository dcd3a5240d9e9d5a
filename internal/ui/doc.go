// Package ui provides the gvascope terminal user interface.
//
// # Architecture Overview
//
// The package is a single Bubble Tea model. Update owns all mutable state;
// rendering reads it and nothing else. The pure pieces live elsewhere and the
// model only orchestrates them:
//
//   - internal/tree builds the view tree from a decoded save
//   - internal/search runs queries and match cycling over that tree
//   - internal/intake tracks the upload lifecycle and the drop overlay
//   - internal/gvas talks to the decoder daemon
//   - internal/watch feeds drop-directory events in via a channel
//
// # Screen Layout
//
// Top to bottom: the save stats panel (magic, save game version, package file
// version, save game class — always those four rows), the search bar, the
// property tree viewport, and the status bar carrying the intake state badge.
// While the drop directory has unsettled files the viewport area shows the
// drop banner instead.
//
// # Input Modes
//
// Plain tree navigation is the default mode. `/` focuses the search input
// (debounced live search, enter commits, esc clears), `o` switches to the
// file picker, `p` to the typed-path prompt, and `h`/`?` raises the help
// overlay. Esc always returns to the tree.
//
// # Uploads
//
// Every entry point funnels into Model.submit, which runs the intake state
// machine and spawns an upload command. Responses come back as messages;
// a success replaces the header, tree and search engine wholesale, a failure
// only updates the status bar and leaves the loaded save alone. Concurrent
// uploads are not serialized; the last response wins.
//
// # Themes
//
// Themes follow the Theme/Styles split: a Theme is a named palette, Styles()
// derives the lipgloss styles from it. `T` cycles themes and persists the
// choice via internal/prefs.
package ui
