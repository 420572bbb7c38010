package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/navmanifest/internal/logger"
)

// DefaultWatchDebounce is the quiet period after the last file event
const DefaultWatchDebounce = 500 * time.Millisecond

// FileWatcher signals on C when one of the watched files changes. Bursts of
// events (editors writing via rename, formatters) collapse into one signal.
type FileWatcher struct {
	files    map[string]bool // absolute paths
	dirs     []string
	watcher  *fsnotify.Watcher
	logger   logger.Logger
	debounce time.Duration

	out      chan struct{}
	eventCh  chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewFileWatcher creates a watcher for the given files. Empty paths are skipped.
func NewFileWatcher(log logger.Logger, debounce time.Duration, paths ...string) (*FileWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw := &FileWatcher{
		files:    make(map[string]bool),
		watcher:  w,
		logger:   log,
		debounce: debounce,
		out:      make(chan struct{}, 1),
		eventCh:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		fw.files[abs] = true
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			fw.dirs = append(fw.dirs, dir)
		}
	}
	if len(fw.files) == 0 {
		_ = w.Close()
		return nil, fmt.Errorf("no files to watch")
	}

	return fw, nil
}

// C fires once per debounced burst of changes
func (fw *FileWatcher) C() <-chan struct{} { return fw.out }

// Start watches the directories holding the files; watching a directory
// survives editors that replace the file instead of writing it.
func (fw *FileWatcher) Start(ctx context.Context) error {
	for _, dir := range fw.dirs {
		if err := fw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	fw.logger.Info("watching manifest files",
		logger.Strings("dirs", fw.dirs),
		logger.Duration("debounce", fw.debounce))

	fw.wg.Add(2)
	go fw.watchLoop(ctx)
	go fw.debounceLoop(ctx)
	return nil
}

// Stop stops watching and waits for the loops to exit
func (fw *FileWatcher) Stop() {
	fw.stopOnce.Do(func() {
		close(fw.stopCh)
		if err := fw.watcher.Close(); err != nil {
			fw.logger.Warn("failed to close file watcher", logger.Error(err))
		}
	})
	fw.wg.Wait()
}

// Close implements io.Closer
func (fw *FileWatcher) Close() error {
	fw.Stop()
	return nil
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	defer fw.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.stopCh:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.files[filepath.Clean(event.Name)] {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				fw.logger.Debug("manifest file event",
					logger.String("file", event.Name),
					logger.String("op", event.Op.String()))
				fw.notify(fw.eventCh)
			case event.Has(fsnotify.Remove):
				fw.logger.Warn("manifest file removed", logger.String("file", event.Name))
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("file watcher error", logger.Error(err))
		}
	}
}

func (fw *FileWatcher) debounceLoop(ctx context.Context) {
	defer fw.wg.Done()
	timer := time.NewTimer(fw.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.stopCh:
			return
		case <-fw.eventCh:
			timer.Reset(fw.debounce)
		case <-timer.C:
			fw.notify(fw.out)
		}
	}
}

// notify never blocks; a pending signal already covers the change.
func (fw *FileWatcher) notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
