// Package watch re-runs a job whenever a history file changes.
//
// Shells append to history in bursts and some rewrite the whole file by
// renaming a temporary copy over it, so events are debounced and a
// removed or renamed file is waited for and watched again.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults applied by New to zero Options fields.
const (
	DefaultDebounce        = 500 * time.Millisecond
	DefaultReappearTimeout = 10 * time.Second
)

// Options configures the watcher behavior.
type Options struct {
	FilePath        string                          // File to watch
	Debounce        time.Duration                   // Quiet period after the last event before OnChange runs
	ReappearTimeout time.Duration                   // How long to wait for a removed file to come back
	OnChange        func(ctx context.Context) error // Called once per burst of changes
	Logger          *slog.Logger
}

// Watcher runs OnChange after the watched file settles.
type Watcher struct {
	opts    Options
	watcher *fsnotify.Watcher
	runs    int
}

// New creates a new Watcher with the given options.
func New(opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.ReappearTimeout <= 0 {
		opts.ReappearTimeout = DefaultReappearTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{opts: opts}
}

// Run blocks until ctx is cancelled or watching fails. A failing OnChange is
// logged and does not stop the watcher; the next change retries.
func (w *Watcher) Run(ctx context.Context) error {
	if w.opts.OnChange == nil {
		return errors.New("watch: OnChange is required")
	}
	if _, err := os.Stat(w.opts.FilePath); err != nil {
		return fmt.Errorf("failed to watch file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}
	defer watcher.Close()
	w.watcher = watcher

	if err := watcher.Add(w.opts.FilePath); err != nil {
		return fmt.Errorf("failed to watch file: %w", err)
	}
	w.opts.Logger.Info("watching history file", "path", w.opts.FilePath, "debounce", w.opts.Debounce)

	return w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) error {
	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher closed unexpectedly")
			}

			changed, err := w.handleEvent(ctx, event)
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
			if changed {
				timer.Reset(w.opts.Debounce)
			}

		case <-timer.C:
			w.run(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// handleEvent reports whether event changed the file contents.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) (bool, error) {
	w.opts.Logger.Debug("file event", "op", event.Op.String(), "path", event.Name)

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		return true, nil
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return true, w.reattach(ctx)
	default:
		return false, nil
	}
}

// reattach waits for the file to reappear and watches it again.
func (w *Watcher) reattach(ctx context.Context) error {
	// The old watch may outlive a rename; drop it so Add targets the new file.
	_ = w.watcher.Remove(w.opts.FilePath)

	timeout := time.After(w.opts.ReappearTimeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if _, err := os.Stat(w.opts.FilePath); err == nil {
			if err := w.watcher.Add(w.opts.FilePath); err != nil {
				return fmt.Errorf("failed to watch replaced file: %w", err)
			}
			w.opts.Logger.Debug("history file replaced, watching new file", "path", w.opts.FilePath)
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-timeout:
			return fmt.Errorf("timeout waiting for %s to reappear", w.opts.FilePath)
		case <-ticker.C:
		}
	}
}

func (w *Watcher) run(ctx context.Context) {
	w.runs++
	start := time.Now()
	if err := w.opts.OnChange(ctx); err != nil {
		w.opts.Logger.Error("re-run failed", "run", w.runs, "error", err)
		return
	}
	w.opts.Logger.Debug("re-run completed", "run", w.runs, "elapsed", time.Since(start))
}
