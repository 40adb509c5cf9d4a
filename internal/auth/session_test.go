package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/oauth2"
)

func testSession(expiresAt time.Time) *Session {
	return &Session{
		AccessToken: "test-access-token",
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User: User{
			ID:        "usr_123",
			Email:     "dev@example.com",
			FirstName: "Dev",
			LastName:  "Eloper",
		},
		CreatedAt: time.Now(),
	}
}

func TestSessionStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path)

	saved := testSession(time.Now().Add(time.Hour))
	require.NoError(t, store.Save(saved))

	loaded := store.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, saved.AccessToken, loaded.AccessToken)
	assert.Equal(t, saved.User, loaded.User)
}

func TestSessionStore_LoadFromDiskAfterRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, NewSessionStore(path).Save(testSession(time.Now().Add(time.Hour))))

	// A fresh store instance simulates a process restart.
	fresh := NewSessionStore(path)
	loaded := fresh.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, "dev@example.com", loaded.User.Email)
}

func TestSessionStore_ExpiredSessionRemovedAtLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, NewSessionStore(path).Save(testSession(time.Now().Add(-time.Minute))))

	store := NewSessionStore(path)
	assert.Nil(t, store.Load())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expired session file should be removed")
}

func TestSessionStore_CorruptFileRemovedAtLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewSessionStore(path)
	assert.Nil(t, store.Load())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "corrupt session file should be removed")
}

func TestSessionStore_ClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path)

	require.NoError(t, store.Clear(), "clearing with nothing to clear must not fail")

	require.NoError(t, store.Save(testSession(time.Now().Add(time.Hour))))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	assert.Nil(t, store.Load())
	assert.False(t, store.IsAuthenticated())
}

func TestSessionStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits not meaningful on windows")
	}

	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "session.json")
	store := NewSessionStore(path)
	require.NoError(t, store.Save(testSession(time.Now().Add(time.Hour))))

	fileInfo, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fileInfo.Mode().Perm(), "session file must be owner-only")

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm(), "session directory must be owner-only")
}

func TestSessionStore_Projections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path)

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.CurrentUser())
	assert.Empty(t, store.AccessToken())

	require.NoError(t, store.Save(testSession(time.Now().Add(time.Hour))))

	assert.True(t, store.IsAuthenticated())
	require.NotNil(t, store.CurrentUser())
	assert.Equal(t, "usr_123", store.CurrentUser().ID)
	assert.Equal(t, "test-access-token", store.AccessToken())
}

func TestSessionStore_StoreToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path)

	expiry := time.Now().Add(30 * time.Minute)
	session, err := store.StoreToken(&oauth2.Token{
		AccessToken:  "tok",
		RefreshToken: "ref",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}, User{ID: "usr_1", Email: "a@b.c"})
	require.NoError(t, err)

	assert.Equal(t, "tok", session.AccessToken)
	assert.Equal(t, "ref", session.RefreshToken)
	assert.WithinDuration(t, expiry, session.ExpiresAt, time.Second)

	loaded := store.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, "usr_1", loaded.User.ID)
}

func TestSessionStore_InvalidateRereadsDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path)
	require.NoError(t, store.Save(testSession(time.Now().Add(time.Hour))))
	require.NotNil(t, store.Load())

	// Another process replaces the file.
	replacement := testSession(time.Now().Add(time.Hour))
	replacement.User.Email = "other@example.com"
	data, err := json.Marshal(replacement)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))

	// Cache still holds the old identity until invalidated.
	assert.Equal(t, "dev@example.com", store.Load().User.Email)

	store.Invalidate()
	assert.Equal(t, "other@example.com", store.Load().User.Email)
}

func TestUser_Name(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{"full name", User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, "Ada Lovelace"},
		{"first only", User{FirstName: "Ada", Email: "ada@example.com"}, "Ada"},
		{"email fallback", User{Email: "ada@example.com"}, "ada@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.Name())
		})
	}
}
