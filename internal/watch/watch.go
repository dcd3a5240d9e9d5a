// Package watch turns a drop directory into an intake source: any save file
// placed there is noticed, allowed to settle, and handed to the uploader.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventKind classifies watcher notifications for the UI.
type EventKind int

const (
	// Activity means a file appeared or started changing; the intake
	// overlay should show.
	Activity EventKind = iota
	// Settled means a file stopped changing and is ready to submit.
	Settled
	// Ended means activity ceased without a usable file (removed or
	// renamed away before settling).
	Ended
)

// Event is one watcher notification.
type Event struct {
	Kind EventKind
	Path string
}

const defaultSettle = 500 * time.Millisecond

// Watcher observes one directory with fsnotify and emits Events. Files must
// stop changing for the settle window before they are reported Settled;
// partially copied saves would otherwise be submitted mid-write.
type Watcher struct {
	dir    string
	settle time.Duration
	fw     *fsnotify.Watcher
	events chan Event
}

// New starts watching dir. A non-positive settle uses the default window.
func New(dir string, settle time.Duration) (*Watcher, error) {
	if settle <= 0 {
		settle = defaultSettle
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("init watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{
		dir:    dir,
		settle: settle,
		fw:     fw,
		events: make(chan Event, 16),
	}, nil
}

// Events returns the notification channel. It is closed when Run returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run pumps filesystem notifications until the context is cancelled. Each
// tracked file produces exactly one Activity event and, later, exactly one
// Settled or Ended event, so overlay enter/leave pairs stay balanced.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)
	defer func() { _ = w.fw.Close() }()

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	pending := make(map[string]time.Time) // path -> last change

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			switch {
			case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
				if ignorable(ev.Name) {
					continue
				}
				if _, tracked := pending[ev.Name]; !tracked {
					if !w.emit(ctx, Event{Kind: Activity, Path: ev.Name}) {
						return
					}
				}
				pending[ev.Name] = time.Now()

			case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
				if _, tracked := pending[ev.Name]; tracked {
					delete(pending, ev.Name)
					if !w.emit(ctx, Event{Kind: Ended, Path: ev.Name}) {
						return
					}
				}
			}

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Transient watch errors; keep going.

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.settle {
					continue
				}
				delete(pending, path)
				kind := Settled
				if fi, err := os.Stat(path); err != nil || fi.IsDir() {
					kind = Ended
				}
				if !w.emit(ctx, Event{Kind: kind, Path: path}) {
					return
				}
			}
		}
	}
}

func (w *Watcher) emit(ctx context.Context, e Event) bool {
	select {
	case w.events <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// ignorable filters editor droppings and in-progress copies by name.
func ignorable(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return true
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".tmp", ".part", ".crdownload", ".swp":
		return true
	}
	return false
}
