package folders

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/poiesic/wayfind/core"
)

// contains reports whether child is strictly inside parent. Both must be
// clean absolute paths.
func contains(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// within reports whether path equals root or is inside it.
func within(root, path string) bool {
	return root == path || contains(root, path)
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// indexer walks folder trees into item lists.
type indexer struct {
	exclude []string
}

// skip reports whether path under root is left out of the index.
func (ix indexer) skip(root, path, name string) bool {
	if hidden(name) {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, p := range ix.exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func newEntry(path string, dir bool) core.Item {
	kind := core.KindFile
	if dir {
		kind = core.KindFolder
	}
	return core.NewItem(filepath.Base(path), kind, core.SourceFS, core.PathTarget(path))
}

// walk indexes everything below start, which must be root or inside it.
// start itself is included when includeStart is set. The result is sorted
// by path.
func (ix indexer) walk(ctx context.Context, root, start string, includeStart bool) ([]core.Item, error) {
	var (
		mu      sync.Mutex
		entries []core.Item
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, start, func(p string, d os.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() && p != start {
				return fs.SkipDir
			}
			if p == start {
				return err
			}
			return nil
		}
		if p == start {
			if includeStart {
				mu.Lock()
				entries = append(entries, newEntry(p, d.IsDir()))
				mu.Unlock()
			}
			return nil
		}
		if ix.skip(root, p, d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		mu.Lock()
		entries = append(entries, newEntry(p, d.IsDir()))
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortEntries(entries)
	return entries, nil
}

func sortEntries(entries []core.Item) {
	sort.Slice(entries, func(i, j int) bool {
		a, _ := entries[i].Path()
		b, _ := entries[j].Path()
		return a < b
	})
}

// folderPaths returns the paths of the folder entries.
func folderPaths(entries []core.Item) []string {
	var out []string
	for _, e := range entries {
		if e.Kind == core.KindFolder {
			p, _ := e.Path()
			out = append(out, p)
		}
	}
	return out
}

// dirs returns root plus every folder entry path.
func dirs(root string, entries []core.Item) []string {
	return append([]string{root}, folderPaths(entries)...)
}

// without returns entries minus path and everything inside it.
func without(entries []core.Item, path string) ([]core.Item, []core.Item) {
	kept := make([]core.Item, 0, len(entries))
	var dropped []core.Item
	for _, e := range entries {
		p, _ := e.Path()
		if within(path, p) {
			dropped = append(dropped, e)
			continue
		}
		kept = append(kept, e)
	}
	return kept, dropped
}
