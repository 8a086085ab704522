package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda/internal/models"
)

func TestSQLiteMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	events, err := NewSQLiteSnapshot(path).Load()
	require.NoError(t, err, "missing database should be the first-run case")
	assert.Empty(t, events, "missing database should yield an empty set")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "loading should not create the database")
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	snapshot := NewSQLiteSnapshot(path)

	saved := []models.Event{
		mustEvent(t, "Déjeuner royal", "2024-11-25 12:00", "2024-11-25 14:00"),
		mustEvent(t, "Daily standup", "2024-11-26 10:00", "2024-11-26 10:15"),
	}
	require.NoError(t, snapshot.Save(saved), "should save events")

	loaded, err := snapshot.Load()
	require.NoError(t, err, "should load saved events")
	models.SortByStart(loaded)
	assert.Equal(t, saved, loaded, "events should survive the round trip")
}

func TestSQLiteSaveReplacesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	snapshot := NewSQLiteSnapshot(path)

	require.NoError(t, snapshot.Save([]models.Event{
		mustEvent(t, "Ancien", "2024-11-25 09:00", "2024-11-25 10:00"),
	}))
	replacement := mustEvent(t, "Nouveau", "2024-11-25 11:00", "2024-11-25 12:00")
	require.NoError(t, snapshot.Save([]models.Event{replacement}))

	loaded, err := snapshot.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1, "save should replace, not append")
	assert.Equal(t, replacement, loaded[0])
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	st, err := Open(NewSQLiteSnapshot(path))
	require.NoError(t, err)
	event := mustEvent(t, "Réunion", "2024-11-25 13:00", "2024-11-25 14:30")
	require.NoError(t, st.Add(event))
	require.NoError(t, st.Save())

	reopened, err := Open(NewSQLiteSnapshot(path))
	require.NoError(t, err, "should reopen sqlite-backed store")
	got, err := reopened.Get(event.ID)
	require.NoError(t, err)
	assert.Equal(t, event, got, "event should survive the sqlite round trip")

	require.NoError(t, reopened.Clear(), "should clear sqlite store")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "database file should be deleted")
}
