package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionWatcher_ExternalLogoutDropsCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path)
	require.NoError(t, store.Save(testSession(time.Now().Add(time.Hour))))
	require.NotNil(t, store.Load())

	watcher, err := StartSessionWatcher(store)
	require.NoError(t, err)
	defer watcher.Close()

	// Another process logs out by removing the file.
	other := NewSessionStore(path)
	require.NoError(t, other.Clear())

	assert.Eventually(t, func() bool {
		return store.Load() == nil
	}, 2*time.Second, 20*time.Millisecond, "watcher should drop the cached session after external logout")
}

func TestSessionWatcher_ExternalLoginPickedUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path)

	watcher, err := StartSessionWatcher(store)
	require.NoError(t, err)
	defer watcher.Close()

	assert.Nil(t, store.Load())

	// Another process logs in.
	other := NewSessionStore(path)
	require.NoError(t, other.Save(testSession(time.Now().Add(time.Hour))))

	assert.Eventually(t, func() bool {
		return store.Load() != nil
	}, 2*time.Second, 20*time.Millisecond, "watcher should surface a session created externally")
}

func TestSessionWatcher_CloseStopsWatching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path)

	watcher, err := StartSessionWatcher(store)
	require.NoError(t, err)
	require.NoError(t, watcher.Close())
}
