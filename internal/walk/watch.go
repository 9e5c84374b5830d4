package walk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period Watch waits for before re-walking.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	DirPredicate  DirPredicate  // Directories to walk and watch, all when nil
	FilePredicate FilePredicate // Files to report, all when nil
	Debounce      time.Duration // Quiet period before a re-walk, DefaultDebounce when zero
}

// WatchResult is one complete listing produced by Watch.
type WatchResult struct {
	Files   []string // Full listing, nil when Err is set
	Err     error    // Walk or watcher failure
	Trigger string   // Path of the last event that caused this listing, empty for the first
}

// WatchHandler processes each listing. A non-nil return stops Watch.
type WatchHandler func(ctx context.Context, result WatchResult) error

// Watch walks root, reports the listing, then re-walks and reports again
// whenever the watched directories change. Every report is a complete
// listing. Watch returns when ctx is done or the handler fails.
func (w *Walker) Watch(ctx context.Context, root string, opts WatchOptions, handler WatchHandler) error {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("error watching directory %s: %w", root, err)
	}

	rewalk := func(trigger string) error {
		var dirs sync.Map
		dirPred := func(path string) bool {
			if opts.DirPredicate != nil && !opts.DirPredicate(path) {
				return false
			}
			dirs.Store(path, struct{}{})
			return true
		}

		files, err := w.Where(ctx, root, dirPred, opts.FilePredicate)
		dirs.Range(func(key, _ any) bool {
			if err := watcher.Add(key.(string)); err != nil {
				w.logger.Debug("error watching directory", zap.Any("dir", key), zap.Error(err))
			}
			return true
		})
		if ctx.Err() != nil {
			return nil
		}
		return handler(ctx, WatchResult{Files: files, Err: err, Trigger: trigger})
	}

	if err := rewalk(""); err != nil {
		return err
	}

	var fire <-chan time.Time
	var trigger string
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.logger.Debug("watch event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			trigger = event.Name
			fire = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if herr := handler(ctx, WatchResult{Err: fmt.Errorf("watcher error: %w", err)}); herr != nil {
				return herr
			}

		case <-fire:
			fire = nil
			if err := rewalk(trigger); err != nil {
				return err
			}
		}
	}
}
