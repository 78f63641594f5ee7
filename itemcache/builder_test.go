package itemcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/poiesic/wayfind/core"
	"github.com/poiesic/wayfind/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnumerator struct {
	pkgs  []platform.Package
	err   error
	calls atomic.Int32
}

func (f *fakeEnumerator) ListInstalledPackages(ctx context.Context) ([]platform.Package, error) {
	f.calls.Add(1)
	return f.pkgs, f.err
}

func (f *fakeEnumerator) ResolveInstallLocations(ctx context.Context, ids []string) ([]platform.InstallLocation, error) {
	return nil, nil
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func shortcutTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	touch(t, filepath.Join(root, "Notepad.lnk"))
	touch(t, filepath.Join(root, "Tools", "Paint.lnk"))
	touch(t, filepath.Join(root, "Tools", "Deep", "Docs.url"))
	touch(t, filepath.Join(root, "Tools", "Uninstall Paint.lnk"))
	touch(t, filepath.Join(root, "Tools", "readme.txt"))
	return root
}

func names(items []core.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestBuild_ShortcutsOnly(t *testing.T) {
	root := shortcutTree(t)
	b, err := NewBuilder(nil, WithShortcutDirs(root))
	require.NoError(t, err)

	items := b.Build(context.Background())
	assert.ElementsMatch(t, []string{"Notepad", "Paint", "Docs"}, names(items))
	for _, item := range items {
		assert.Equal(t, core.SourceShortcut, item.Source)
		assert.Equal(t, core.KindApp, item.Kind)
		assert.True(t, item.HasPath())
	}
}

func TestBuild_MergesPackages(t *testing.T) {
	root := shortcutTree(t)
	enum := &fakeEnumerator{pkgs: []platform.Package{
		{Name: "Paint", LaunchID: "Microsoft.Paint!App"},
		{Name: "Calculator", LaunchID: "Calc!App"},
		{Name: "", LaunchID: "Broken!App"},
	}}
	b, err := NewBuilder(enum, WithShortcutDirs(root))
	require.NoError(t, err)

	items := b.Build(context.Background())
	require.Len(t, items, 4)
	assert.Equal(t, int32(1), enum.calls.Load())

	byName := make(map[string]core.Item)
	for _, item := range items {
		byName[item.Name] = item
	}
	assert.True(t, byName["Paint"].HasPath(), "shortcut with a path should win over the package")
	id, ok := byName["Calculator"].PackageID()
	require.True(t, ok)
	assert.Equal(t, "Calc!App", id)
}

func TestBuild_EnumeratorFailureKeepsShortcuts(t *testing.T) {
	root := shortcutTree(t)
	enum := &fakeEnumerator{
		pkgs: []platform.Package{{Name: "Calculator", LaunchID: "Calc!App"}},
		err:  errors.New("powershell unavailable"),
	}
	b, err := NewBuilder(enum, WithShortcutDirs(root))
	require.NoError(t, err)

	items := b.Build(context.Background())
	assert.ElementsMatch(t, []string{"Notepad", "Paint", "Docs", "Calculator"}, names(items))
}

func TestBuild_TotalFailure(t *testing.T) {
	enum := &fakeEnumerator{err: errors.New("nope")}
	b, err := NewBuilder(enum, WithShortcutDirs(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)

	items := b.Build(context.Background())
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestBuild_CustomPatterns(t *testing.T) {
	root := shortcutTree(t)
	b, err := NewBuilder(nil, WithShortcutDirs(root), WithPatterns([]string{"**/*.lnk"}, []string{"Tools/**"}))
	require.NoError(t, err)

	assert.Equal(t, []string{"Notepad"}, names(b.Build(context.Background())))
}

func TestWithPatterns_Invalid(t *testing.T) {
	_, err := NewBuilder(nil, WithPatterns([]string{"[unclosed"}, nil))
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestDedup(t *testing.T) {
	shortcut := func(name, path string) core.Item {
		return core.NewItem(name, core.KindApp, core.SourceShortcut, core.PathTarget(path))
	}
	pkg := func(name, id string) core.Item {
		return core.NewItem(name, core.KindApp, core.SourcePackage, core.PackageTarget(id))
	}

	tests := []struct {
		name string
		in   []core.Item
		want []core.Item
	}{
		{
			name: "path wins over earlier package",
			in:   []core.Item{pkg("A", "a!App"), shortcut("A", "/a.lnk")},
			want: []core.Item{shortcut("A", "/a.lnk")},
		},
		{
			name: "first path wins",
			in:   []core.Item{shortcut("A", "/1.lnk"), shortcut("A", "/2.lnk")},
			want: []core.Item{shortcut("A", "/1.lnk")},
		},
		{
			name: "first package wins",
			in:   []core.Item{pkg("A", "1"), pkg("A", "2")},
			want: []core.Item{pkg("A", "1")},
		},
		{
			name: "order of first occurrence is kept",
			in:   []core.Item{pkg("B", "b"), shortcut("A", "/a"), shortcut("B", "/b"), pkg("C", "c")},
			want: []core.Item{shortcut("B", "/b"), shortcut("A", "/a"), pkg("C", "c")},
		},
		{
			name: "empty",
			in:   nil,
			want: []core.Item{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dedup(tt.in))
		})
	}
}

func TestDedup_OnePerNamePathSurvives(t *testing.T) {
	var in []core.Item
	for i := 0; i < 20; i++ {
		name := []string{"A", "B", "C"}[i%3]
		if i%4 == 0 {
			in = append(in, core.NewItem(name, core.KindApp, core.SourceShortcut, core.PathTarget("/p")))
		} else {
			in = append(in, core.NewItem(name, core.KindApp, core.SourcePackage, core.PackageTarget("id")))
		}
	}

	out := Dedup(in)
	assert.Len(t, out, 3)
	for _, item := range out {
		assert.True(t, item.HasPath(), "%s had a path-carrying duplicate", item.Name)
	}
}
