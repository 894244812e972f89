package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndLoad(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "meta"))
	require.NoError(t, err)

	rec, err := store.Save("ansible-env", "night2.lan", map[string]interface{}{
		"persistent": true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "1.0", rec.Version)
	assert.False(t, rec.CreatedAt.IsZero())

	loaded, err := store.Load("ansible-env", "night2.lan")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, loaded.ID)
	assert.Equal(t, "night2.lan", loaded.TargetHost)
	assert.Equal(t, true, loaded.Attrs["persistent"])
}

func TestStore_ResaveKeepsIdentity(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save("env", "host", nil)
	require.NoError(t, err)

	second, err := store.Save("env", "host", map[string]interface{}{"updated": true})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
}

func TestStore_IndexTracksRecords(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("env-a", "host-1", nil)
	require.NoError(t, err)
	_, err = store.Save("env-b", "host-2", nil)
	require.NoError(t, err)

	keys, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"env-a@host-1", "env-b@host-2"}, keys)

	idx, err := store.Index()
	require.NoError(t, err)
	assert.Equal(t, "host-1", idx["env-a@host-1"].TargetHost)
}

func TestStore_Delete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("env", "host", nil)
	require.NoError(t, err)

	require.NoError(t, store.Delete("env", "host"))
	_, err = store.Load("env", "host")
	assert.Error(t, err)

	keys, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, keys)

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete("env", "host"))
}

func TestStore_LoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("absent", "host")
	assert.Error(t, err)
}

func TestStore_CorruptIndex(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte("{broken"), 0o644))
	_, err = store.List()
	assert.Error(t, err)
}
