package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteKVRoundTrip(t *testing.T) {
	kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer kv.Close()

	_, ok, err := kv.Get("tempUnit")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("tempUnit", "F"))

	v, ok, err := kv.Get("tempUnit")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "F", v)

	// Set on an existing key overwrites.
	require.NoError(t, kv.Set("tempUnit", "C"))
	v, _, err = kv.Get("tempUnit")
	require.NoError(t, err)
	assert.Equal(t, "C", v)

	require.NoError(t, kv.Delete("tempUnit"))
	_, ok, err = kv.Get("tempUnit")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	assert.NoError(t, kv.Delete("tempUnit"))
}

func TestSQLiteKVSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	kv, err := NewSQLiteKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set("darkMode", "true"))
	require.NoError(t, kv.Close())

	reopened, err := NewSQLiteKV(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get("darkMode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}
