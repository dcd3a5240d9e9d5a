// Package config handles loading and parsing gvascope configuration files.
//
// # Overview
//
// Both the gvascope TUI and the gvascoped daemon read the same TOML file to
// agree on the decode API endpoint. The TUI additionally reads the drop
// directory and timing knobs.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/gvascope/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/gvascope/config.toml
//   - API endpoint: 127.0.0.1:7845
//   - Drop directory: ~/.local/share/gvascope/drop
//   - Search debounce: 120ms
//   - Drop settle window: 500ms
//
// # TOML Format
//
// Example config.toml:
//
//	api_bind = "127.0.0.1:7845"
//	drop_dir = "~/saves/drop"
//	search_debounce_ms = 120
//	watch_settle_ms = 500
//
// All fields are optional. Tilde expansion is performed automatically on
// paths; non-positive durations fall back to defaults.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// Missing config files are NOT an error - defaults are used instead.
// This allows gvascope to work out-of-the-box without configuration.
package config
