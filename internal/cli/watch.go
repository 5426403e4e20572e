package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce batches the burst of events an editor emits on save.
const watchDebounce = 200 * time.Millisecond

// Watch re-converts the given files in place whenever they change, until ctx
// is cancelled. The conversion is idempotent, so the event caused by our own
// rewrite converges instead of looping.
func (r *Runner) Watch(ctx context.Context, files []string, opts Options) error {
	if !opts.InPlace {
		return fmt.Errorf("--watch requires --inplace")
	}
	if len(files) == 0 {
		return fmt.Errorf("no files to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			r.logger.WithError(closeErr).Warn("Failed to close file watcher")
		}
	}()

	// Watch parent directories rather than the files themselves: editors
	// often replace files on save, which silently drops a direct file watch.
	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	r.logger.WithField("files", len(watched)).Info("Watching for changes")

	var (
		pending  = make(map[string]bool)
		debounce *time.Timer
		fire     <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			pending[abs] = true
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			for path := range pending {
				delete(pending, path)
				if _, err := r.ProcessFile(path, opts); err != nil {
					r.logger.WithError(err).WithField("file", path).Warn("Watched conversion failed")
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.WithError(err).Warn("File watcher error")
		}
	}
}
