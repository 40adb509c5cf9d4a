package auth

import (
	"path/filepath"

	"portalmcp/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// SessionWatcher invalidates the store's in-memory cache when the session
// file changes on disk, so a login or logout performed by another portalmcp
// process (for example `portalmcp auth logout` in a terminal while the MCP
// server is running) is picked up on the next Load.
//
// The watch is placed on the containing directory rather than the file
// itself, because the file is removed and recreated across logins.
type SessionWatcher struct {
	watcher *fsnotify.Watcher
	store   *SessionStore
	done    chan struct{}
}

// StartSessionWatcher begins watching the store's session file.
func StartSessionWatcher(store *SessionStore) (*SessionWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(store.Path())); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &SessionWatcher{
		watcher: watcher,
		store:   store,
		done:    make(chan struct{}),
	}
	go w.run()

	return w, nil
}

func (w *SessionWatcher) run() {
	sessionPath := w.store.Path()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != sessionPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				logging.Debug("Auth", "Session file changed on disk (%s), dropping cached session", event.Op)
				w.store.Invalidate()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("Auth", "Session watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher. Safe to call once.
func (w *SessionWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
