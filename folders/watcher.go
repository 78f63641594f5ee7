package folders

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/poiesic/wayfind/core"
)

// Watch starts applying filesystem changes under the indexed folders to
// their indices. It returns once the watcher is running; the watcher stops
// when ctx ends or Close is called.
func (m *Manager) Watch(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watcher != nil {
		return ErrWatcherRunning
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create folder watcher: %w", err)
	}
	m.watcher = watcher
	m.stopped = make(chan struct{})

	current := m.state.Load()
	for _, root := range current.roots {
		m.watchAll(dirs(root, current.indices[root]))
	}

	go m.watch(ctx, watcher, m.stopped)
	return nil
}

// Close stops the watcher if it is running.
func (m *Manager) Close() error {
	m.mu.Lock()
	watcher, stopped := m.watcher, m.stopped
	m.watcher, m.stopped = nil, nil
	m.mu.Unlock()

	if watcher == nil {
		return nil
	}
	err := watcher.Close()
	<-stopped
	return err
}

func (m *Manager) watch(ctx context.Context, watcher *fsnotify.Watcher, stopped chan struct{}) {
	defer close(stopped)
	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			if m.watcher == watcher {
				m.watcher = nil
				m.stopped = nil
			}
			m.mu.Unlock()
			watcher.Close()
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			m.apply(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			m.logger.Warn("folder watcher error", "err", err)
		}
	}
}

// apply patches the index of the folder containing event.Name.
func (m *Manager) apply(ctx context.Context, event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.state.Load()
	root, ok := rootOf(current.roots, path)
	if !ok {
		return
	}
	entries := current.indices[root]

	switch {
	case event.Has(fsnotify.Create):
		if path == root || m.indexer.skip(root, path, filepath.Base(path)) {
			return
		}
		info, err := os.Lstat(path)
		if err != nil {
			return
		}
		added := []core.Item{newEntry(path, info.IsDir())}
		if info.IsDir() {
			added, err = m.indexer.walk(ctx, root, path, true)
			if err != nil {
				m.logger.Debug("failed to index new folder", "path", path, "err", err)
				return
			}
		}
		kept, _ := without(entries, path)
		entries = append(kept, added...)
		sortEntries(entries)
		m.watchAll(folderPaths(added))
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if path == root {
			entries = []core.Item{}
			break
		}
		var dropped []core.Item
		entries, dropped = without(entries, path)
		if len(dropped) == 0 {
			return
		}
		m.unwatchAll(folderPaths(dropped))
	default:
		return
	}

	indices := maps.Clone(current.indices)
	indices[root] = entries
	m.state.Store(newSnapshot(indices))
	m.logger.Debug("patched folder index", "root", root, "path", path, "op", event.Op.String())
}

func rootOf(roots []string, path string) (string, bool) {
	for _, root := range roots {
		if within(root, path) {
			return root, true
		}
	}
	return "", false
}

// watchAll adds dirs to the watcher. Must be called with mu held.
func (m *Manager) watchAll(dirs []string) {
	if m.watcher == nil {
		return
	}
	for _, dir := range dirs {
		if err := m.watcher.Add(dir); err != nil {
			m.logger.Debug("failed to watch folder", "path", dir, "err", err)
		}
	}
}

// unwatchAll removes dirs from the watcher. Must be called with mu held.
func (m *Manager) unwatchAll(dirs []string) {
	if m.watcher == nil {
		return
	}
	for _, dir := range dirs {
		_ = m.watcher.Remove(dir)
	}
}
