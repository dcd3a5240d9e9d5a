package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gvascope/gvascope/internal/config"
	"github.com/gvascope/gvascope/internal/gvas"
	"github.com/gvascope/gvascope/internal/prefs"
	"github.com/gvascope/gvascope/internal/ui"
	"github.com/gvascope/gvascope/internal/watch"
)

// Options configure the gvascope application.
type Options struct {
	ConfigPath string
	PrefsPath  string   // empty uses default ~/.config/gvascope/prefs.toml
	Files      []string // save files to load on startup
	NoWatch    bool     // disable the drop-directory watcher
}

// Run boots the gvascope TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	client, err := gvas.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("init decoder client: %w", err)
	}

	uiOpts := ui.Options{
		Context:      ctx,
		Client:       client,
		Config:       cfg,
		ThemeName:    userPrefs.Theme,
		PrefsPath:    opts.PrefsPath,
		InitialFiles: opts.Files,
	}

	if !opts.NoWatch && cfg.DropDir != "" {
		if err := os.MkdirAll(cfg.DropDir, 0o755); err != nil {
			return fmt.Errorf("create drop dir: %w", err)
		}
		watcher, err := watch.New(cfg.DropDir, cfg.Settle())
		if err != nil {
			return fmt.Errorf("watch drop dir: %w", err)
		}
		go watcher.Run(ctx)
		uiOpts.Watch = watcher.Events()
	}

	return ui.Run(uiOpts)
}
