package filesystem

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	logger "github.com/sirupsen/logrus"
)

const defaultDebounce = 300 * time.Millisecond

// WatcherRepository watches the project directory with fsnotify. The
// directory is watched rather than the files so that editors replacing a file
// through a rename are still seen.
type WatcherRepository struct {
	debounce time.Duration
}

// NewWatcherRepository creates a watcher that coalesces events arriving within
// debounce of each other. A non-positive debounce uses the default.
func NewWatcherRepository(debounce time.Duration) *WatcherRepository {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &WatcherRepository{debounce: debounce}
}

func (it *WatcherRepository) Watch(
	ctx context.Context,
	projectPath string,
	files []string,
	onChange func(changed string),
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir, err := filepath.Abs(projectPath)
	if err != nil {
		return err
	}
	if err = watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	watched := make(map[string]struct{}, len(files))
	for _, file := range files {
		watched[filepath.Base(file)] = struct{}{}
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, timer := range pending {
			timer.Stop()
		}
		mu.Unlock()
	}()

	logger.Infof("[watch] Watching %s", dir)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Base(event.Name)
			if _, ok = watched[name]; !ok {
				continue
			}
			logger.Debugf("[watch] %s: %s", event.Op, event.Name)

			mu.Lock()
			if timer, exists := pending[name]; exists {
				timer.Reset(it.debounce)
			} else {
				changed := event.Name
				pending[name] = time.AfterFunc(it.debounce, func() {
					mu.Lock()
					delete(pending, name)
					mu.Unlock()
					if ctx.Err() == nil {
						onChange(changed)
					}
				})
			}
			mu.Unlock()

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("[watch] Watcher error: %v", watchErr)

		case <-ctx.Done():
			logger.Debug("[watch] Stopping")
			return nil
		}
	}
}
