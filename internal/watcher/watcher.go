package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"echo/internal/logging"
)

// DefaultSettleDelay gives the game time to finish writing a screenshot
// before the pipeline reads it.
const DefaultSettleDelay = time.Second

var imageExtensions = map[string]struct{}{
	".png": {},
	".jpg": {},
}

// Handler processes one screenshot creation event. It runs to completion
// before the next event is delivered.
type Handler func(ctx context.Context, path string)

// Watcher delivers image creation events from a single directory,
// non-recursively, one at a time.
type Watcher struct {
	dir     string
	settle  time.Duration
	handler Handler
	logger  *slog.Logger
}

// New validates the directory and builds a watcher.
func New(dir string, settle time.Duration, handler Handler, logger *slog.Logger) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watcher requires a handler")
	}
	if settle < 0 {
		settle = DefaultSettleDelay
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a valid directory", dir)
	}
	return &Watcher{
		dir:     dir,
		settle:  settle,
		handler: handler,
		logger:  logging.NewComponentLogger(logger, "watcher"),
	}, nil
}

// Run blocks until ctx is canceled, handing each newly created screenshot to
// the handler. A slow handler or a hung remote call stalls the loop; that is
// acceptable under the single-item-at-a-time model.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching folder for screenshots", slog.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) || !w.wantsPath(event.Name) {
				continue
			}
			w.logger.Debug("new image detected", slog.String("path", event.Name))
			if !sleepCtx(ctx, w.settle) {
				return ctx.Err()
			}
			w.handler(ctx, event.Name)
		case watchErr, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.Any("error", watchErr))
		}
	}
}

// wantsPath filters events down to non-directory paths with an image
// extension.
func (w *Watcher) wantsPath(path string) bool {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return false
	}
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
