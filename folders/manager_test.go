package folders

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/poiesic/wayfind/core"
	"github.com/poiesic/wayfind/storage"
	"github.com/poiesic/wayfind/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) storage.Store {
	t.Helper()
	backend, err := badger.OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return backend
}

func newManager(t *testing.T, store storage.Store, opts ...Option) *Manager {
	t.Helper()
	m, err := NewManager(store, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

// tree creates:
//
//	root/
//	  a/notes.txt
//	  a/b/report.pdf
//	  .git/config
//	  build/out.o
//	  readme.md
func tree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	touch(t, filepath.Join(root, "a", "notes.txt"))
	touch(t, filepath.Join(root, "a", "b", "report.pdf"))
	touch(t, filepath.Join(root, ".git", "config"))
	touch(t, filepath.Join(root, "build", "out.o"))
	touch(t, filepath.Join(root, "readme.md"))
	return root
}

func entryNames(entries []core.Item) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func persisted(t *testing.T, store storage.Store) []string {
	t.Helper()
	data, err := store.Get(context.Background(), storage.KeyIndexedFolders)
	require.NoError(t, err)
	roots, err := storage.UnmarshalStrings(data)
	require.NoError(t, err)
	return roots
}

func TestAddFolder_Indexes(t *testing.T) {
	root := tree(t)
	store := newStore(t)
	m := newManager(t, store, WithExcludePatterns("build", "build/**"))

	removed, err := m.AddFolder(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, removed)

	assert.Equal(t, []string{root}, m.Folders())
	assert.ElementsMatch(t, []string{"a", "notes.txt", "b", "report.pdf", "readme.md"}, entryNames(m.Entries()))
	assert.Equal(t, []string{root}, persisted(t, store))

	for _, e := range m.Entries() {
		assert.Equal(t, core.SourceFS, e.Source)
		assert.Equal(t, core.Normalize(e.Name), e.Normalized, "normalized name is cached at index time")
		path, ok := e.Path()
		require.True(t, ok)
		if e.Name == "a" || e.Name == "b" {
			assert.Equal(t, core.KindFolder, e.Kind, path)
		} else {
			assert.Equal(t, core.KindFile, e.Kind, path)
		}
	}
}

func TestAddFolder_AlreadyIndexed(t *testing.T) {
	root := tree(t)
	m := newManager(t, newStore(t))
	_, err := m.AddFolder(context.Background(), root)
	require.NoError(t, err)

	_, err = m.AddFolder(context.Background(), root+string(filepath.Separator))
	assert.ErrorIs(t, err, ErrAlreadyIndexed)
	assert.Equal(t, []string{root}, m.Folders())
}

func TestAddFolder_ChildOfIndexedRejected(t *testing.T) {
	root := tree(t)
	store := newStore(t)
	m := newManager(t, store)
	_, err := m.AddFolder(context.Background(), root)
	require.NoError(t, err)
	before := m.Entries()

	_, err = m.AddFolder(context.Background(), filepath.Join(root, "a", "b"))
	assert.ErrorIs(t, err, ErrParentIndexed)
	assert.Equal(t, []string{root}, m.Folders())
	assert.Equal(t, before, m.Entries())
	assert.Equal(t, []string{root}, persisted(t, store))
}

func TestAddFolder_ParentReplacesChildren(t *testing.T) {
	root := tree(t)
	store := newStore(t)
	m := newManager(t, store)
	ctx := context.Background()

	childA := filepath.Join(root, "a")
	childBuild := filepath.Join(root, "build")
	_, err := m.AddFolder(ctx, childA)
	require.NoError(t, err)
	_, err = m.AddFolder(ctx, childBuild)
	require.NoError(t, err)
	require.Len(t, m.Folders(), 2)

	removed, err := m.AddFolder(ctx, root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{childA, childBuild}, removed)
	assert.Equal(t, []string{root}, m.Folders())
	assert.Equal(t, []string{root}, persisted(t, store))

	_, ok := m.Index(childA)
	assert.False(t, ok, "child index is discarded")
}

func TestAddFolder_Siblings(t *testing.T) {
	root := tree(t)
	m := newManager(t, newStore(t))
	ctx := context.Background()

	_, err := m.AddFolder(ctx, filepath.Join(root, "a"))
	require.NoError(t, err)
	_, err = m.AddFolder(ctx, filepath.Join(root, "build"))
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "a"), filepath.Join(root, "build")}, m.Folders())
}

func TestAddFolder_PrefixNameIsNotChild(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "proj"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(base, "project"), 0755))
	m := newManager(t, newStore(t))
	ctx := context.Background()

	_, err := m.AddFolder(ctx, filepath.Join(base, "proj"))
	require.NoError(t, err)
	_, err = m.AddFolder(ctx, filepath.Join(base, "project"))
	require.NoError(t, err)
	assert.Len(t, m.Folders(), 2)
}

func TestAddFolder_NotDirectory(t *testing.T) {
	root := tree(t)
	m := newManager(t, newStore(t))

	_, err := m.AddFolder(context.Background(), filepath.Join(root, "readme.md"))
	assert.ErrorIs(t, err, ErrNotDirectory)
	_, err = m.AddFolder(context.Background(), filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, ErrNotDirectory)
	assert.Empty(t, m.Folders())
}

func TestRemoveFolder(t *testing.T) {
	root := tree(t)
	store := newStore(t)
	m := newManager(t, store)
	ctx := context.Background()

	_, err := m.AddFolder(ctx, root)
	require.NoError(t, err)
	require.NoError(t, m.RemoveFolder(ctx, root))

	assert.Empty(t, m.Folders())
	assert.Empty(t, m.Entries())
	assert.Empty(t, persisted(t, store))
	assert.ErrorIs(t, m.RemoveFolder(ctx, root), ErrNotIndexed)
}

func TestLoad(t *testing.T) {
	root := tree(t)
	other := t.TempDir()
	store := newStore(t)
	ctx := context.Background()

	roots := []string{root, filepath.Join(root, "a"), filepath.Join(other, "gone"), other}
	require.NoError(t, store.Set(ctx, storage.KeyIndexedFolders, storage.MarshalStrings(roots)))

	m := newManager(t, store)
	require.NoError(t, m.Load(ctx))

	want := []string{root, other}
	slices.Sort(want)
	assert.Equal(t, want, m.Folders())
	assert.Contains(t, entryNames(m.Entries()), "report.pdf")
}

func TestLoad_Corrupt(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.KeyIndexedFolders, []byte{0x05, 0x01}))

	m := newManager(t, store)
	require.NoError(t, m.Load(ctx))
	assert.Empty(t, m.Folders())
}

func TestApply_Deltas(t *testing.T) {
	root := tree(t)
	m := newManager(t, newStore(t))
	ctx := context.Background()
	_, err := m.AddFolder(ctx, root)
	require.NoError(t, err)

	touch(t, filepath.Join(root, "todo.txt"))
	m.apply(ctx, fsnotify.Event{Name: filepath.Join(root, "todo.txt"), Op: fsnotify.Create})
	assert.Contains(t, entryNames(m.Entries()), "todo.txt")

	touch(t, filepath.Join(root, "new", "deep", "plan.md"))
	m.apply(ctx, fsnotify.Event{Name: filepath.Join(root, "new"), Op: fsnotify.Create})
	assert.Subset(t, entryNames(m.Entries()), []string{"new", "deep", "plan.md"})

	touch(t, filepath.Join(root, ".hidden"))
	m.apply(ctx, fsnotify.Event{Name: filepath.Join(root, ".hidden"), Op: fsnotify.Create})
	assert.NotContains(t, entryNames(m.Entries()), ".hidden")

	before := m.Entries()
	m.apply(ctx, fsnotify.Event{Name: filepath.Join(root, "readme.md"), Op: fsnotify.Write})
	assert.Equal(t, before, m.Entries(), "writes do not change the index")

	m.apply(ctx, fsnotify.Event{Name: filepath.Join(root, "a"), Op: fsnotify.Remove})
	names := entryNames(m.Entries())
	assert.NotContains(t, names, "a")
	assert.NotContains(t, names, "notes.txt")
	assert.NotContains(t, names, "report.pdf")
	assert.Contains(t, names, "plan.md")

	m.apply(ctx, fsnotify.Event{Name: filepath.Join(root, "new"), Op: fsnotify.Rename})
	assert.NotContains(t, entryNames(m.Entries()), "plan.md")

	m.apply(ctx, fsnotify.Event{Name: filepath.Join(t.TempDir(), "elsewhere.txt"), Op: fsnotify.Create})
	assert.NotContains(t, entryNames(m.Entries()), "elsewhere.txt")
}

func TestApply_DoesNotMutateSnapshot(t *testing.T) {
	root := tree(t)
	m := newManager(t, newStore(t))
	ctx := context.Background()
	_, err := m.AddFolder(ctx, root)
	require.NoError(t, err)

	before := m.Entries()
	snapshot := append([]core.Item(nil), before...)
	touch(t, filepath.Join(root, "zzz.txt"))
	m.apply(ctx, fsnotify.Event{Name: filepath.Join(root, "zzz.txt"), Op: fsnotify.Create})

	assert.Equal(t, snapshot, before, "readers holding the old snapshot see no change")
	assert.Len(t, m.Entries(), len(before)+1)
}

func TestWatch(t *testing.T) {
	root := tree(t)
	m := newManager(t, newStore(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := m.AddFolder(ctx, root)
	require.NoError(t, err)
	require.NoError(t, m.Watch(ctx))
	assert.ErrorIs(t, m.Watch(ctx), ErrWatcherRunning)

	touch(t, filepath.Join(root, "a", "b", "fresh.txt"))
	require.Eventually(t, func() bool {
		return slices.Contains(entryNames(m.Entries()), "fresh.txt")
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(root, "readme.md")))
	require.Eventually(t, func() bool {
		return !slices.Contains(entryNames(m.Entries()), "readme.md")
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, m.Close())
}
