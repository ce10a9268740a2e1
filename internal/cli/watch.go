package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// watchFiles runs run once, then again after every change to one of paths,
// until ctx is done. Files are watched through their directory so editors
// that replace a file on save are seen too. Failures of run are logged and
// do not stop the watch.
func watchFiles(ctx context.Context, paths []string, run func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	files := make(map[string]bool)
	tmplDirs := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		if info.IsDir() {
			err = filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
				if err == nil && d.IsDir() {
					dirs[path] = true
					tmplDirs[path] = true
				}
				return err
			})
			if err != nil {
				return fmt.Errorf("watching %s: %w", p, err)
			}
			continue
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	relevant := func(name string) bool {
		if files[name] {
			return true
		}
		return strings.HasSuffix(name, ".tmpl") && tmplDirs[filepath.Dir(name)]
	}

	regenerate := func() {
		if err := run(); err != nil {
			slog.Error("generation failed", "err", err)
		}
	}

	regenerate()
	slog.Info("watching for changes", "paths", paths)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !relevant(event.Name) {
				continue
			}
			slog.Info("change detected", "file", event.Name)
			regenerate()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("error watching files", "err", err)
		}
	}
}
