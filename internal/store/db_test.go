package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db := NewDB()
	require.NoError(t, db.Open(filepath.Join(t.TempDir(), "nested", "fileman.db")))
	return db
}

func waitFor(t *testing.T, db *DB, op EventType) Response {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, r := range db.Drain() {
			if r.Op == op {
				return r
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no response for op %d", op)
	return Response{}
}

func TestSaveAndFetchSettings(t *testing.T) {
	db := openTemp(t)
	db.Start()
	defer db.Close()

	db.Save(KeyLastPath, "/home/user/docs")
	saved := waitFor(t, db, SaveSetting)
	require.NoError(t, saved.Err)

	db.RequestChan <- Request{Op: FetchSettings}
	resp := waitFor(t, db, FetchSettings)
	require.NoError(t, resp.Err)
	assert.Equal(t, "/home/user/docs", resp.Settings[KeyLastPath])

	v, ok, err := db.Setting(KeyLastPath)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/home/user/docs", v)
}

func TestSettingMissing(t *testing.T) {
	db := openTemp(t)
	defer db.Close()

	_, ok, err := db.Setting("nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, db.Bool(KeyShowHidden, true), "unset bool uses fallback")
}

func TestSettingsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fileman.db")

	db := NewDB()
	require.NoError(t, db.Open(path))
	db.Start()
	db.Save(KeyShowHidden, "true")
	waitFor(t, db, SaveSetting)
	db.Close()

	again := NewDB()
	require.NoError(t, again.Open(path))
	defer again.Close()
	assert.True(t, again.Bool(KeyShowHidden, false))
}

func TestSettingBeforeOpen(t *testing.T) {
	_, _, err := NewDB().Setting(KeyLastPath)
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/state", "fileman", "fileman.db"), DefaultPath("/state"))
}
