package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/wayfind/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(tmpDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0644))

	backend, err := OpenBackend(tmpFile, false)
	assert.Error(t, err)
	assert.Nil(t, backend)
}

func TestBackend_GetSet(t *testing.T) {
	ctx := context.Background()
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	t.Run("missing key returns nil without error", func(t *testing.T) {
		value, err := backend.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, storage.KeyLaunchStack, []byte{1, 2, 3}))
		value, err := backend.Get(ctx, storage.KeyLaunchStack)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, value)
	})

	t.Run("set replaces", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, storage.KeyLaunchStack, []byte{9}))
		value, err := backend.Get(ctx, storage.KeyLaunchStack)
		require.NoError(t, err)
		assert.Equal(t, []byte{9}, value)
	})
}

func TestBackend_Clear(t *testing.T) {
	ctx := context.Background()
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.Set(ctx, storage.KeyIconCache, []byte("a")))
	require.NoError(t, backend.Set(ctx, storage.KeyIndexedFolders, []byte("b")))

	require.NoError(t, backend.Clear(ctx))

	for _, key := range []string{storage.KeyIconCache, storage.KeyIndexedFolders} {
		value, err := backend.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, value, key)
	}
}

func TestBackend_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NoError(t, backend.Set(ctx, storage.KeyIndexedFolders, storage.MarshalStrings([]string{"/home/me/src"})))
	require.NoError(t, backend.Close())

	backend, err = OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()

	value, err := backend.Get(ctx, storage.KeyIndexedFolders)
	require.NoError(t, err)
	folders, err := storage.UnmarshalStrings(value)
	require.NoError(t, err)
	assert.Equal(t, []string{"/home/me/src"}, folders)
}

func TestBackend_Closed(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	_, err = backend.Get(context.Background(), "k")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
