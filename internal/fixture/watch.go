package fixture

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay is how long the file must stay quiet before it is re-read.
const reloadDelay = 100 * time.Millisecond

// Watcher re-reads a Store whenever its fixture file changes on disk.
type Watcher struct {
	store    *Store
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
	reloaded chan int
	done     chan struct{}
}

// NewWatcher starts watching the directory holding s's file, so editors
// that save by rename are seen too.
func NewWatcher(s *Store, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(s.Path())); err != nil {
		fsw.Close()
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w := &Watcher{
		store:    s,
		logger:   logger,
		fsw:      fsw,
		reloaded: make(chan int, 1),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Reloaded delivers the conversation count after each successful reload.
// Only the latest count is kept when nobody is reading.
func (w *Watcher) Reloaded() <-chan int {
	return w.reloaded
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	name := filepath.Base(w.store.Path())
	quiet := time.NewTimer(reloadDelay)
	quiet.Stop()
	defer quiet.Stop()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) == name && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				quiet.Reset(reloadDelay)
			}
		case <-quiet.C:
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("fixture watch error", "file", w.store.Path(), "error", err)
		}
	}
}

func (w *Watcher) reload() {
	if err := w.store.Reload(); err != nil {
		w.logger.Warn("fixture reload failed, keeping previous contents", "file", w.store.Path(), "error", err)
		return
	}
	n := w.store.Len()
	w.logger.Info("fixture reloaded", "file", w.store.Path(), "conversations", n)

	select {
	case <-w.reloaded:
	default:
	}
	select {
	case w.reloaded <- n:
	default:
	}
}
