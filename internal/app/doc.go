// Package app provides the orchestration layer for the gvascope TUI.
//
// # Overview
//
// This package wires together configuration, preferences, the decoder client,
// the drop-directory watcher and the UI. It serves as the composition root
// where all dependencies are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/gvascope/config.toml
//  2. Load user preferences (theme, last save directory)
//  3. Initialize the HTTP client for the gvascoped decode API
//  4. Create the drop directory and start the fsnotify watcher
//  5. Start the TUI and block until the user exits or the context cancels
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file present but invalid
//   - Client initialization failure (malformed bind address)
//   - Drop directory creation or watch failure
//
// Recoverable errors (surfaced in the status bar, never fatal):
//   - Upload failures, including an unreachable daemon
//   - Undecodable save files
//
// A missing config file is not an error; defaults apply, so gvascope works
// out of the box against a default-bound gvascoped.
package app
