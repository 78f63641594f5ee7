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


package folders

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/poiesic/wayfind/core"
	"github.com/poiesic/wayfind/storage"
)

// snapshot is an immutable view of the indexed folders.
type snapshot struct {
	roots   []string
	indices map[string][]core.Item
	entries []core.Item
}

func newSnapshot(indices map[string][]core.Item) *snapshot {
	roots := slices.Sorted(maps.Keys(indices))
	n := 0
	for _, root := range roots {
		n += len(indices[root])
	}
	entries := make([]core.Item, 0, n)
	for _, root := range roots {
		entries = append(entries, indices[root]...)
	}
	return &snapshot{roots: roots, indices: indices, entries: entries}
}

// Manager owns the containment-free set of indexed folders and their
// per-folder item indices.
type Manager struct {
	store   storage.Store
	indexer indexer
	logger  *slog.Logger

	mu    sync.Mutex
	state atomic.Pointer[snapshot]

	watcher *fsnotify.Watcher
	stopped chan struct{}
}

// Option is a functional option for configuring a Manager.
type Option func(*Manager) error

// WithExcludePatterns leaves out entries whose slash-separated path relative
// to their indexed folder matches any pattern.
func WithExcludePatterns(patterns ...string) Option {
	return func(m *Manager) error {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return fmt.Errorf("invalid exclude pattern %q", p)
			}
		}
		m.indexer.exclude = append([]string(nil), patterns...)
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		m.logger = logger
		return nil
	}
}

// NewManager creates a manager with no indexed folders. Call Load to restore
// the persisted set.
func NewManager(store storage.Store, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.state.Store(newSnapshot(map[string][]core.Item{}))
	return m, nil
}

// Load restores the persisted folder set and indexes each folder. Folders
// that no longer exist, or that overlap an earlier one, are dropped. A
// corrupt persisted value is treated as an empty set.
func (m *Manager) Load(ctx context.Context) error {
	data, err := m.store.Get(ctx, storage.KeyIndexedFolders)
	if err != nil {
		return fmt.Errorf("failed to load indexed folders: %w", err)
	}

	var roots []string
	if data != nil {
		roots, err = storage.UnmarshalStrings(data)
		if err != nil {
			m.logger.Warn("discarding corrupt folder list", "err", err)
			roots = nil
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	indices := make(map[string][]core.Item, len(roots))
	for _, root := range roots {
		root = filepath.Clean(root)
		if overlaps(indices, root) {
			m.logger.Warn("dropping overlapping indexed folder", "path", root)
			continue
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			m.logger.Warn("dropping missing indexed folder", "path", root)
			continue
		}
		entries, err := m.indexer.walk(ctx, root, root, false)
		if err != nil {
			m.logger.Warn("failed to index folder", "path", root, "err", err)
			entries = []core.Item{}
		}
		indices[root] = entries
		m.watchAll(dirs(root, entries))
	}

	m.state.Store(newSnapshot(indices))
	m.logger.Debug("loaded indexed folders", "folders", len(indices))
	return nil
}

func overlaps(indices map[string][]core.Item, path string) bool {
	for root := range indices {
		if within(root, path) || contains(path, root) {
			return true
		}
	}
	return false
}

// AddFolder indexes path and adds it to the set. Indexed folders inside path
// are replaced by it and returned. Adding a folder that is already indexed,
// or that lies inside an indexed folder, fails without changing the set.
func (m *Manager) AddFolder(ctx context.Context, path string) ([]string, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve folder path: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.state.Load()
	var removed []string
	for _, root := range current.roots {
		switch {
		case root == path:
			return nil, fmt.Errorf("%w: %s", ErrAlreadyIndexed, path)
		case contains(root, path):
			return nil, fmt.Errorf("%w: %s covers %s", ErrParentIndexed, root, path)
		case contains(path, root):
			removed = append(removed, root)
		}
	}

	entries, err := m.indexer.walk(ctx, path, path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to index folder: %w", err)
	}

	indices := maps.Clone(current.indices)
	for _, root := range removed {
		delete(indices, root)
	}
	indices[path] = entries
	next := newSnapshot(indices)

	if err := m.persist(ctx, next.roots); err != nil {
		return nil, err
	}
	m.state.Store(next)
	m.watchAll(dirs(path, entries))

	m.logger.Info("indexed folder", "path", path, "entries", len(entries), "replaced", len(removed))
	return removed, nil
}

// RemoveFolder drops path and its index from the set.
func (m *Manager) RemoveFolder(ctx context.Context, path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve folder path: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.state.Load()
	entries, ok := current.indices[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotIndexed, path)
	}

	indices := maps.Clone(current.indices)
	delete(indices, path)
	next := newSnapshot(indices)

	if err := m.persist(ctx, next.roots); err != nil {
		return err
	}
	m.state.Store(next)
	m.unwatchAll(dirs(path, entries))

	m.logger.Info("removed indexed folder", "path", path)
	return nil
}

// Folders returns the indexed folders in sorted order.
func (m *Manager) Folders() []string {
	return slices.Clone(m.state.Load().roots)
}

// Entries returns every indexed entry across all folders. Callers must not
// modify the result.
func (m *Manager) Entries() []core.Item {
	return m.state.Load().entries
}

// Index returns the entries of one indexed folder.
func (m *Manager) Index(root string) ([]core.Item, bool) {
	entries, ok := m.state.Load().indices[filepath.Clean(root)]
	return entries, ok
}

func (m *Manager) persist(ctx context.Context, roots []string) error {
	if err := m.store.Set(ctx, storage.KeyIndexedFolders, storage.MarshalStrings(roots)); err != nil {
		return fmt.Errorf("failed to persist indexed folders: %w", err)
	}
	return nil
}
