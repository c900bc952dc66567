package purge

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/temirov/csskit/internal/collector"
)

const defaultDebounce = 200 * time.Millisecond

// ResultHandler receives the outcome of every purge run made by a Watcher.
type ResultHandler func(result Result, purgeError error)

// Watcher reruns a purge request whenever a scanned source or the input
// stylesheet changes. Bursts of events within the debounce window trigger a
// single run.
type Watcher struct {
	service  *Service
	request  Request
	debounce time.Duration
	handle   ResultHandler
	logger   *zap.Logger
}

// NewWatcher creates a Watcher. A zero debounce selects 200ms.
func NewWatcher(service *Service, request Request, debounce time.Duration, handle ResultHandler, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		service:  service,
		request:  request,
		debounce: debounce,
		handle:   handle,
		logger:   logger.Named("watch"),
	}
}

// Run purges once, then keeps purging on changes until ctx is done.
func (watcher *Watcher) Run(ctx context.Context) error {
	fileWatcher, watcherError := fsnotify.NewWatcher()
	if watcherError != nil {
		return fmt.Errorf("failed to create file watcher: %w", watcherError)
	}
	defer fileWatcher.Close()

	watchedFiles := map[string]struct{}{}
	if absoluteInput, absoluteError := filepath.Abs(watcher.request.CSSPath); absoluteError == nil {
		watchedFiles[absoluteInput] = struct{}{}
		watcher.addDirectory(fileWatcher, filepath.Dir(absoluteInput))
	}
	for _, path := range watcher.request.PathsToScan {
		if path == "" {
			continue
		}
		information, statError := os.Stat(path)
		if statError != nil {
			continue
		}
		if information.IsDir() {
			watcher.addTree(fileWatcher, path)
			continue
		}
		if absolutePath, absoluteError := filepath.Abs(path); absoluteError == nil {
			watchedFiles[absolutePath] = struct{}{}
			watcher.addDirectory(fileWatcher, filepath.Dir(absolutePath))
		}
	}

	watcher.run(ctx)

	var debounceTimer *time.Timer
	var debounceChannel <-chan time.Time
	changedPaths := map[string]struct{}{}
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil
		case event, open := <-fileWatcher.Events:
			if !open {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if information, statError := os.Stat(event.Name); statError == nil && information.IsDir() {
					watcher.addTree(fileWatcher, event.Name)
					continue
				}
			}
			if !watcher.isRelevant(event, watchedFiles) {
				continue
			}
			watcher.logger.Debug("source changed", zap.String("op", event.Op.String()), zap.String("path", event.Name))
			changedPaths[event.Name] = struct{}{}
			if debounceTimer == nil {
				debounceTimer = time.NewTimer(watcher.debounce)
			} else {
				debounceTimer.Reset(watcher.debounce)
			}
			debounceChannel = debounceTimer.C
		case <-debounceChannel:
			debounceChannel = nil
			for changedPath := range changedPaths {
				watcher.service.cache.Invalidate(changedPath)
				delete(changedPaths, changedPath)
			}
			watcher.run(ctx)
		case watchError, open := <-fileWatcher.Errors:
			if !open {
				return nil
			}
			watcher.logger.Warn("file watcher error", zap.Error(watchError))
		}
	}
}

func (watcher *Watcher) run(ctx context.Context) {
	result, purgeError := watcher.service.Purge(ctx, watcher.request)
	if watcher.handle != nil {
		watcher.handle(result, purgeError)
	}
}

func (watcher *Watcher) isRelevant(event fsnotify.Event, watchedFiles map[string]struct{}) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if absolutePath, absoluteError := filepath.Abs(event.Name); absoluteError == nil {
		if _, watched := watchedFiles[absolutePath]; watched {
			return true
		}
	}
	return collector.IsEligible(event.Name)
}

func (watcher *Watcher) addTree(fileWatcher *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return nil
		}
		if entry.IsDir() {
			watcher.addDirectory(fileWatcher, path)
		}
		return nil
	})
}

func (watcher *Watcher) addDirectory(fileWatcher *fsnotify.Watcher, directory string) {
	if addError := fileWatcher.Add(directory); addError != nil {
		watcher.logger.Warn("failed to watch directory", zap.String("path", directory), zap.Error(addError))
	}
}
