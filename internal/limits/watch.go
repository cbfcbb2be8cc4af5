package limits

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch blocks until ctx is cancelled, invoking onChange with a fresh
// snapshot whenever the limits file at path is rewritten. Snapshots are
// never mutated in place: a computation holds whichever one it started
// with, and edits surface only through the next onChange.
//
// A rewrite that fails to load (bad YAML, non-numeric standard) is logged
// and swallowed; the caller keeps computing against its current snapshot.
func Watch(ctx context.Context, path string, onChange func(*Limits)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("limits: watching for edits", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Plain writes and creates both count as edits: an atomic
			// save shows up as a create of a new file at the same path.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			snap, err := Load(path)
			if err != nil {
				slog.Error("limits: ignoring unloadable edit",
					"path", path, "err", err)
				continue
			}

			slog.Info("limits: new snapshot", "path", path, "metals", snap.Len())
			onChange(snap)

			// An atomic save leaves the watch pointing at the replaced
			// inode; re-add so the next edit is still seen.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("limits: watcher error", "err", err)
		}
	}
}
