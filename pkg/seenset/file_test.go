package seenset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))

	set := store.Load()
	require.NotNil(t, set)
	assert.Equal(t, 0, set.Total())
}

func TestLoadCorruptFileReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	set := NewFileStore(path).Load()
	require.NotNil(t, set)
	assert.Equal(t, 0, set.Total())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	store := NewFileStore(path)

	set := New()
	set.Add("https://www.pararius.com/apartments/amsterdam", snap("123", "Canal apartment"))
	set.Add("https://www.pararius.com/apartments/utrecht", snap("h:deadbeef", "Hashed one"))
	require.NoError(t, store.Save(set))

	loaded := store.Load()
	assert.Equal(t, 2, loaded.Total())

	got, ok := loaded.Snapshot("https://www.pararius.com/apartments/amsterdam", "123")
	require.True(t, ok)
	assert.Equal(t, "123", got.Key, "key restored from the map key on load")
	assert.Equal(t, "Canal apartment", got.Title)
	assert.Equal(t, "€1,200 per month", got.Price)
	assert.True(t, got.DiscoveredAt.Equal(snap("123", "").DiscoveredAt))
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "seen.json"))

	set := New()
	set.Add("src", snap("1", "x"))
	require.NoError(t, store.Save(set))
	require.NoError(t, store.Save(set)) // overwrite path

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "seen.json", entries[0].Name())
}

func TestSaveOverwritePreservesReadableState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	store := NewFileStore(path)

	set := New()
	set.Add("src", snap("1", "x"))
	require.NoError(t, store.Save(set))

	set.Add("src", snap("2", "y"))
	require.NoError(t, store.Save(set))

	assert.Equal(t, 2, store.Load().Total())
}
