package sessionstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-crm-console/sessionstore"
	"github.com/jrsteele09/go-crm-console/users"
)

const (
	testToken = "tok1"
)

func testUser() *users.User {
	return &users.User{ID: "u1", Name: "Ann", Email: "a@b.com", Role: users.RoleTeamLead}
}

func newTestStore(t *testing.T) (*sessionstore.FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := sessionstore.NewFileStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	store.SaveToken(testToken)
	store.SaveUser(testUser())

	require.Equal(t, testToken, store.LoadToken())
	require.Equal(t, testUser(), store.LoadUser())
}

func TestSurvivesProcessRestart(t *testing.T) {
	store, dir := newTestStore(t)
	store.SaveToken(testToken)
	store.SaveUser(testUser())

	// A new store over the same directory stands in for a restarted process.
	restarted, err := sessionstore.NewFileStore(dir)
	require.NoError(t, err)
	require.Equal(t, testToken, restarted.LoadToken())
	require.Equal(t, testUser(), restarted.LoadUser())
}

func TestEmptyStoreLoadsNothing(t *testing.T) {
	store, _ := newTestStore(t)

	require.Empty(t, store.LoadToken())
	require.Nil(t, store.LoadUser())
}

func TestCorruptUserDegradesToNoSession(t *testing.T) {
	store, dir := newTestStore(t)
	store.SaveToken(testToken)

	err := os.WriteFile(filepath.Join(dir, sessionstore.UserKey), []byte("{not json"), 0o600)
	require.NoError(t, err)

	require.Nil(t, store.LoadUser())
}

func TestClearRemovesBothKeys(t *testing.T) {
	store, _ := newTestStore(t)
	store.SaveToken(testToken)
	store.SaveUser(testUser())

	store.Clear()

	require.Empty(t, store.LoadToken())
	require.Nil(t, store.LoadUser())
}

func TestClearIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	store.SaveToken(testToken)
	store.SaveUser(testUser())

	store.Clear()
	store.Clear()

	require.Empty(t, store.LoadToken())
	require.Nil(t, store.LoadUser())
}

func TestNewFileStoreRequiresDirectory(t *testing.T) {
	_, err := sessionstore.NewFileStore("")
	require.Error(t, err)
}
