package inbox

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch sends every command appended to the tailed inbox to out until ctx
// is cancelled, then closes out. It watches the parent directory so the
// inbox may be created, truncated or replaced while the watch runs.
func Watch(ctx context.Context, t *Tail, out chan<- Command) error {
	defer close(out)

	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return err
	}

	deliver := func() bool {
		cmds, err := t.Next()
		if err != nil {
			t.log.Warn("reading inbox", zap.String("path", t.path), zap.Error(err))
			return true
		}
		for _, c := range cmds {
			select {
			case out <- c:
			case <-ctx.Done():
				return false
			}
		}
		return true
	}

	// Pick up anything written between NewTail and the watch being armed.
	if !deliver() {
		return nil
	}

	target := filepath.Clean(t.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if !deliver() {
					return nil
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			t.log.Warn("inbox watcher error", zap.Error(err))
		}
	}
}
