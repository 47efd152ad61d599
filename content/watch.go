package content

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Source hands out the current Site. A Source backed by a file can be
// reloaded while the server runs.
type Source struct {
	site atomic.Pointer[Site]
	path string
}

// NewSource loads content from path, or the embedded default when path is
// empty.
func NewSource(path string) (*Source, error) {
	s := &Source{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Source) Site() *Site {
	return s.site.Load()
}

func (s *Source) Reload() error {
	var (
		site *Site
		err  error
	)
	if s.path == "" {
		site, err = Default()
	} else {
		site, err = LoadFile(s.path)
	}
	if err != nil {
		return err
	}
	s.site.Store(site)
	return nil
}

// Watch reloads the file whenever it changes, until ctx is done. A file
// that fails to parse keeps the previous content in place.
func (s *Source) Watch(ctx context.Context, logger *slog.Logger) error {
	if s.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating content watcher: %w", err)
	}

	// Editors often replace files by rename, so watch the directory.
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		target := filepath.Clean(s.path)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := s.Reload(); err != nil {
					logger.Warn("content reload failed, keeping previous content", "path", s.path, "error", err)
					continue
				}
				logger.Info("content reloaded", "path", s.path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("content watcher error", "error", err)
			}
		}
	}()
	return nil
}
