package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields the gvascope TUI and daemon share.
type Config struct {
	APIBind          string
	DropDir          string
	SearchDebounceMS int
	WatchSettleMS    int
}

const (
	defaultConfigPath     = "~/.config/gvascope/config.toml"
	defaultDropDir        = "~/.local/share/gvascope/drop"
	defaultAPIBind        = "127.0.0.1:7845"
	defaultSearchDebounce = 120
	defaultWatchSettle    = 500
)

// Load locates and parses the gvascope config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIBind:          defaultAPIBind,
		DropDir:          defaultDropDir,
		SearchDebounceMS: defaultSearchDebounce,
		WatchSettleMS:    defaultWatchSettle,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.DropDir = mustExpand(defaultDropDir)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBind          string `toml:"api_bind"`
		DropDir          string `toml:"drop_dir"`
		SearchDebounceMS int    `toml:"search_debounce_ms"`
		WatchSettleMS    int    `toml:"watch_settle_ms"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIBind = strings.TrimSpace(raw.APIBind)
	if cfg.APIBind == "" {
		cfg.APIBind = defaultAPIBind
	}

	cfg.DropDir = strings.TrimSpace(raw.DropDir)
	if cfg.DropDir == "" {
		cfg.DropDir = defaultDropDir
	}
	cfg.DropDir = mustExpand(cfg.DropDir)

	if raw.SearchDebounceMS > 0 {
		cfg.SearchDebounceMS = raw.SearchDebounceMS
	}
	if raw.WatchSettleMS > 0 {
		cfg.WatchSettleMS = raw.WatchSettleMS
	}

	return cfg, nil
}

// Debounce returns the search debounce window as a duration.
func (c Config) Debounce() time.Duration {
	if c.SearchDebounceMS <= 0 {
		return defaultSearchDebounce * time.Millisecond
	}
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

// Settle returns the drop-directory settle window as a duration.
func (c Config) Settle() time.Duration {
	if c.WatchSettleMS <= 0 {
		return defaultWatchSettle * time.Millisecond
	}
	return time.Duration(c.WatchSettleMS) * time.Millisecond
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
