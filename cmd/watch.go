package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"goldenapi/pkg/logging"
	pkgstrings "goldenapi/pkg/strings"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events editors emit on save.
const watchDebounce = 300 * time.Millisecond

// watchAndRerun runs run once, then again whenever one of paths changes,
// until ctx is done. Run errors are printed, not returned.
func watchAndRerun(ctx context.Context, out io.Writer, paths []string, run func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	match, err := addWatches(watcher, paths)
	if err != nil {
		return err
	}

	report := func() {
		if err := run(); err != nil {
			fmt.Fprintf(out, "❌ %s\n", pkgstrings.FirstLines(err.Error(), 1))
		}
		fmt.Fprintf(out, "\n👀 Watching %s for changes (Ctrl+C to stop)\n", strings.Join(paths, ", "))
	}
	report()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !match(event.Name) || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logging.Debug("Watch", "Change detected: %s (%s)", event.Name, event.Op)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			fmt.Fprintf(out, "\n🔄 Change detected, rerunning\n")
			report()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("Watch", "Watcher error: %v", err)
		}
	}
}

// addWatches watches directories directly and files through their parent
// directory, since editors replace files on save. The returned matcher
// tells whether an event path belongs to one of paths.
func addWatches(watcher *fsnotify.Watcher, paths []string) (func(string) bool, error) {
	dirs := map[string]bool{}
	files := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("cannot watch %s: %w", p, err)
		}
		dir := abs
		if info.IsDir() {
			dirs[abs] = true
		} else {
			files[abs] = true
			dir = filepath.Dir(abs)
		}
		if err := watcher.Add(dir); err != nil {
			return nil, fmt.Errorf("cannot watch %s: %w", dir, err)
		}
		logging.Debug("Watch", "Watching %s", dir)
	}

	return func(name string) bool {
		abs, err := filepath.Abs(name)
		if err != nil {
			return false
		}
		if files[abs] {
			return true
		}
		return dirs[filepath.Dir(abs)] && isSuiteFile(abs)
	}, nil
}

func isSuiteFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
