// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package itemcache

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/poiesic/wayfind/core"
	"github.com/poiesic/wayfind/platform"
)

// DefaultIncludePatterns select shortcut files inside shortcut directories.
var DefaultIncludePatterns = []string{"**/*.lnk", "**/*.url", "**/*.desktop"}

// DefaultExcludePatterns drop uninstaller shortcuts.
var DefaultExcludePatterns = []string{"**/[Uu]ninstall*"}

// Builder discovers the application list from shortcut directories and the
// platform's installed packages.
type Builder struct {
	enumerator platform.PackageEnumerator
	dirs       []string
	include    []string
	exclude    []string
	logger     *slog.Logger
}

// Option is a functional option for configuring a Builder.
type Option func(*Builder) error

// WithShortcutDirs sets the directories walked for shortcut files.
func WithShortcutDirs(dirs ...string) Option {
	return func(b *Builder) error {
		b.dirs = append([]string(nil), dirs...)
		return nil
	}
}

// WithPatterns replaces the include and exclude patterns used to select
// shortcut files. Patterns are matched against slash-separated paths
// relative to the shortcut directory. A nil slice keeps the default.
func WithPatterns(include, exclude []string) Option {
	return func(b *Builder) error {
		for _, p := range append(append([]string(nil), include...), exclude...) {
			if !doublestar.ValidatePattern(p) {
				return fmt.Errorf("%w: %s", ErrInvalidPattern, p)
			}
		}
		if include != nil {
			b.include = include
		}
		if exclude != nil {
			b.exclude = exclude
		}
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a Builder. enumerator may be nil, in which case only
// shortcuts are collected.
func NewBuilder(enumerator platform.PackageEnumerator, opts ...Option) (*Builder, error) {
	b := &Builder{
		enumerator: enumerator,
		include:    DefaultIncludePatterns,
		exclude:    DefaultExcludePatterns,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Build returns the deduplicated application list. Failures of either
// source are logged and degrade to a partial list; Build never fails.
func (b *Builder) Build(ctx context.Context) []core.Item {
	var items []core.Item

	for _, path := range b.walkShortcuts(ctx) {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		items = b.appendValid(items, core.NewItem(name, core.KindApp, core.SourceShortcut, core.PathTarget(path)))
	}

	if b.enumerator != nil {
		pkgs, err := b.enumerator.ListInstalledPackages(ctx)
		if err != nil {
			b.logger.Warn("package enumeration failed", "err", err, "partial", len(pkgs))
		}
		for _, p := range pkgs {
			if p.LaunchID == "" {
				continue
			}
			items = b.appendValid(items, core.NewItem(p.Name, core.KindApp, core.SourcePackage, core.PackageTarget(p.LaunchID)))
		}
	}

	items = Dedup(items)
	b.logger.Debug("built item cache", "items", len(items))
	return items
}

func (b *Builder) appendValid(items []core.Item, item core.Item) []core.Item {
	if err := core.ValidateItem(&item); err != nil {
		b.logger.Debug("skipping application", "name", item.Name, "err", err)
		return items
	}
	return append(items, item)
}

// walkShortcuts returns every matching shortcut path in lexical order.
func (b *Builder) walkShortcuts(ctx context.Context) []string {
	var (
		mu    sync.Mutex
		paths []string
	)

	for _, dir := range b.dirs {
		root := filepath.Clean(dir)
		conf := fastwalk.Config{Follow: false}
		err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				b.logger.Debug("skipping unreadable shortcut path", "path", p, "err", err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return nil
			}
			if b.matches(filepath.ToSlash(rel)) {
				mu.Lock()
				paths = append(paths, p)
				mu.Unlock()
			}
			return nil
		})
		if err != nil {
			b.logger.Warn("shortcut walk failed", "dir", root, "err", err)
		}
	}

	sort.Strings(paths)
	return paths
}

func (b *Builder) matches(rel string) bool {
	for _, p := range b.exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	for _, p := range b.include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Dedup keeps one item per name. An item with a path replaces an earlier one
// without; otherwise the first seen item wins. The survivor takes the slot
// of the first occurrence.
func Dedup(items []core.Item) []core.Item {
	out := make([]core.Item, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		i, seen := index[item.Name]
		if !seen {
			index[item.Name] = len(out)
			out = append(out, item)
			continue
		}
		if item.HasPath() && !out[i].HasPath() {
			out[i] = item
		}
	}
	return out
}
