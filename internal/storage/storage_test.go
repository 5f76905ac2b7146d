package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_client/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadSession_EmptyStore(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	user, token, err := s.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	saved := &models.User{ID: 7, Username: "alice", Email: "alice@example.com", Phone: "555"}
	require.NoError(t, s.SaveSession(saved, "t1"))

	user, token, err := s.LoadSession()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "555", user.Phone)
	assert.Equal(t, "t1", token)
}

func TestSaveSession_ReplacesPreviousSession(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	require.NoError(t, s.SaveSession(&models.User{ID: 7, Username: "alice"}, "t1"))
	require.NoError(t, s.SaveSession(&models.User{ID: 8, Username: "bob"}, "t2"))

	user, token, err := s.LoadSession()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(8), user.ID)
	assert.Equal(t, "t2", token)
}

func TestClearSession_RemovesBoth(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	require.NoError(t, s.SaveSession(&models.User{ID: 7, Username: "alice"}, "t1"))
	require.NoError(t, s.ClearSession())

	user, token, err := s.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestClearSession_IdempotentWhenEmpty(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	require.NoError(t, s.ClearSession())
}
