package assets

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultReloadDelay is how long a file must stay quiet before a change is
// reported. Editors often write a file in several steps.
const DefaultReloadDelay = 150 * time.Millisecond

// Watcher invalidates cached assets when their files change on disk and
// reports the changed paths on Changes.
type Watcher struct {
	manager *Manager
	log     *zap.Logger
	fs      *fsnotify.Watcher
	delay   time.Duration

	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]int
}

// NewWatcher starts watching for changes on behalf of m.
func NewWatcher(m *Manager, delay time.Duration) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		manager: m,
		log:     m.log.Named("watch"),
		fs:      fs,
		delay:   delay,
		changes: make(chan string, 16),
		done:    make(chan struct{}),
		files:   make(map[string]struct{}),
		dirs:    make(map[string]int),
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Changes delivers the path of each watched file after it changed and its
// cache entry was dropped.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Watch adds path to the watch list. The parent directory is watched so
// that editors replacing the file are noticed.
func (w *Watcher) Watch(path string) error {
	key := cacheKey(path)
	dir := filepath.Dir(key)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[key]; ok {
		return nil
	}
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[key] = struct{}{}

	w.log.Debug("watching file", zap.String("path", key))
	return nil
}

// Unwatch removes path from the watch list.
func (w *Watcher) Unwatch(path string) {
	key := cacheKey(path)
	dir := filepath.Dir(key)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[key]; !ok {
		return
	}
	delete(w.files, key)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		if err := w.fs.Remove(dir); err != nil {
			w.log.Debug("unwatching directory", zap.String("dir", dir), zap.Error(err))
		}
	}
}

func (w *Watcher) watched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[cacheKey(path)]
	return ok
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	pending := make(map[string]struct{})
	var settle <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !w.watched(event.Name) {
				continue
			}
			pending[cacheKey(event.Name)] = struct{}{}
			settle = time.After(w.delay)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", zap.Error(err))

		case <-settle:
			settle = nil
			for path := range pending {
				delete(pending, path)
				w.manager.Invalidate(path)
				w.log.Info("file changed", zap.String("path", path))
				select {
				case w.changes <- path:
				case <-w.done:
					return
				}
			}
		}
	}
}
