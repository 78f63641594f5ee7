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


// Package wayfind wires the launcher's indices, icon cache, history and
// query engine into a single handle used by front ends.
package wayfind

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/wayfind/catalog"
	"github.com/poiesic/wayfind/config"
	"github.com/poiesic/wayfind/core"
	"github.com/poiesic/wayfind/folders"
	"github.com/poiesic/wayfind/history"
	"github.com/poiesic/wayfind/icons"
	"github.com/poiesic/wayfind/itemcache"
	"github.com/poiesic/wayfind/platform"
	"github.com/poiesic/wayfind/platform/powershell"
	"github.com/poiesic/wayfind/progress"
	"github.com/poiesic/wayfind/search"
	"github.com/poiesic/wayfind/storage/badger"
)

// ErrNoLauncher is returned when Launch is called without a process launcher.
var ErrNoLauncher = errors.New("no process launcher configured")

// Launcher owns every launcher component and the background job pool.
type Launcher struct {
	backend  *badger.Backend
	items    *itemcache.Cache
	icons    *icons.Pipeline
	folders  *folders.Manager
	history  *history.Tracker
	engine   *search.Engine
	process  platform.ProcessLauncher
	jobs     *ants.Pool
	logger   *slog.Logger
	reloaded chan struct{}

	// ctx ends when the launcher closes; icon runs and the watcher use it.
	ctx    context.Context
	cancel context.CancelFunc

	settings  []core.Item
	commands  []core.Item
	shortcuts []core.Item

	mu         sync.Mutex
	iconStream *progress.Stream
}

// Option configures a Launcher.
type Option func(*launcherOptions)

type launcherOptions struct {
	enumerator platform.PackageEnumerator
	extractor  platform.IconExtractor
	process    platform.ProcessLauncher
	monitor    search.QueryMonitor
	logger     *slog.Logger
	home       string
	watch      bool
}

// WithEnumerator replaces the PowerShell package enumerator.
func WithEnumerator(e platform.PackageEnumerator) Option {
	return func(o *launcherOptions) {
		o.enumerator = e
	}
}

// WithExtractor replaces the PowerShell icon extractor.
func WithExtractor(e platform.IconExtractor) Option {
	return func(o *launcherOptions) {
		o.extractor = e
	}
}

// WithProcessLauncher replaces the PowerShell process launcher.
func WithProcessLauncher(p platform.ProcessLauncher) Option {
	return func(o *launcherOptions) {
		o.process = p
	}
}

// WithMonitor sets the query monitor.
func WithMonitor(m search.QueryMonitor) Option {
	return func(o *launcherOptions) {
		o.monitor = m
	}
}

// WithLogger sets the logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *launcherOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHome sets the home directory the predefined folder shortcuts point at.
func WithHome(home string) Option {
	return func(o *launcherOptions) {
		o.home = home
	}
}

// WithoutWatcher disables filesystem watching of indexed folders.
func WithoutWatcher() Option {
	return func(o *launcherOptions) {
		o.watch = false
	}
}

// New opens the store described by cfg, restores persisted state and starts
// watching indexed folders. The item list starts empty until Reload.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Launcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &launcherOptions{
		logger: slog.Default(),
		watch:  true,
	}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger

	if options.enumerator == nil || options.extractor == nil || options.process == nil {
		client := powershell.NewClient(
			powershell.WithExecutable(cfg.PowerShell),
			powershell.WithLogger(logger),
		)
		if options.enumerator == nil {
			options.enumerator = client
		}
		if options.extractor == nil {
			options.extractor = client
		}
		if options.process == nil {
			options.process = client
		}
	}

	backend, err := badger.OpenBackend(cfg.DatabaseDir(), cfg.InMemory)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	jobs, err := ants.NewPool(1)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to create job pool: %w", err)
	}

	fail := func(err error) (*Launcher, error) {
		jobs.Release()
		backend.Close()
		return nil, err
	}

	builder, err := itemcache.NewBuilder(options.enumerator,
		itemcache.WithShortcutDirs(cfg.ShortcutDirs...),
		itemcache.WithPatterns(cfg.ShortcutPatterns, cfg.ShortcutExcludes),
		itemcache.WithLogger(logger),
	)
	if err != nil {
		return fail(err)
	}
	items := itemcache.NewCache(builder)

	pipeline := icons.NewPipeline(backend, options.extractor, options.enumerator, cfg.IconCacheDir,
		icons.WithIconSize(cfg.IconSize),
		icons.WithScheduler(jobs),
		icons.WithLogger(logger),
	)
	if err := pipeline.Load(ctx); err != nil {
		return fail(err)
	}

	manager, err := folders.NewManager(backend,
		folders.WithExcludePatterns(cfg.FolderExcludes...),
		folders.WithLogger(logger),
	)
	if err != nil {
		return fail(err)
	}
	if err := manager.Load(ctx); err != nil {
		return fail(err)
	}

	tracker := history.NewTracker(backend,
		history.WithTTL(cfg.HistoryTTL),
		history.WithLogger(logger),
	)

	settings, commands, shortcuts := catalog.Settings(), catalog.Commands(), catalog.Folders(options.home)
	engine, err := search.NewEngine(items,
		search.WithEntries(manager),
		search.WithHistory(tracker),
		search.WithSettings(settings),
		search.WithCommands(commands),
		search.WithFolderShortcuts(shortcuts),
		search.WithMonitor(options.monitor),
		search.WithLogger(logger),
	)
	if err != nil {
		return fail(err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l := &Launcher{
		backend:    backend,
		items:      items,
		icons:      pipeline,
		folders:    manager,
		history:    tracker,
		engine:     engine,
		process:    options.process,
		jobs:       jobs,
		logger:     logger,
		ctx:        runCtx,
		cancel:     cancel,
		settings:   settings,
		commands:   commands,
		shortcuts:  shortcuts,
		reloaded:   make(chan struct{}, 1),
		iconStream: progress.Completed(),
	}

	if options.watch {
		if err := manager.Watch(runCtx); err != nil {
			logger.Warn("folder watching unavailable", "err", err)
		}
	}

	return l, nil
}

// Reload rebuilds the application list, prunes history entries for items
// that are gone and schedules an icon run for the new list. It returns once
// the icon run is queued; IconProgress reports on it. The icon run stops when
// ctx ends or the launcher closes.
//
// An empty application list is taken as a failed enumeration and leaves the
// history untouched.
func (l *Launcher) Reload(ctx context.Context) error {
	items := l.items.Reload(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	removed := 0
	if len(items) == 0 {
		l.logger.Warn("application list is empty, keeping launch history")
	} else {
		var err error
		removed, err = l.history.Prune(ctx, l.present())
		if err != nil {
			l.logger.Warn("failed to prune launch history", "err", err)
		}
	}

	stream := l.startIcons(ctx, func(ctx context.Context) *progress.Stream {
		return l.icons.Run(ctx, items)
	})

	l.logger.Info("reload complete", "items", len(items), "history_pruned", removed, "icons_missing", stream.Total())
	select {
	case l.reloaded <- struct{}{}:
	default:
	}
	return nil
}

// RefreshIcons discards every cached icon and extracts them again. The run
// stops when ctx ends or the launcher closes.
func (l *Launcher) RefreshIcons(ctx context.Context) *progress.Stream {
	items := l.items.Items()
	return l.startIcons(ctx, func(ctx context.Context) *progress.Stream {
		return l.icons.Rebuild(ctx, items)
	})
}

// startIcons runs start under a context that ends with either ctx or the
// launcher, and publishes its stream.
func (l *Launcher) startIcons(ctx context.Context, start func(context.Context) *progress.Stream) *progress.Stream {
	runCtx, cancel := context.WithCancel(l.ctx)
	stop := context.AfterFunc(ctx, cancel)

	stream := start(runCtx)
	go func() {
		<-stream.Done()
		stop()
		cancel()
	}()

	l.mu.Lock()
	l.iconStream = stream
	l.mu.Unlock()
	return stream
}

// present returns the names history may keep: applications, catalog items,
// folder shortcuts and indexed entries.
func (l *Launcher) present() map[string]struct{} {
	names := l.items.Names()
	for _, group := range [][]core.Item{l.settings, l.commands, l.shortcuts, l.folders.Entries()} {
		for _, item := range group {
			names[item.Name] = struct{}{}
		}
	}
	return names
}

// Building reports whether the application list is being rebuilt.
func (l *Launcher) Building() bool {
	return l.items.Building()
}

// ReloadComplete receives a value after each finished Reload. Signals that
// are not received coalesce into one.
func (l *Launcher) ReloadComplete() <-chan struct{} {
	return l.reloaded
}

// IconProgress returns the stream of the most recent icon run.
func (l *Launcher) IconProgress() *progress.Stream {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.iconStream
}

// Icon returns the cached icon file for name.
func (l *Launcher) Icon(name string) (string, bool) {
	return l.icons.Lookup(name)
}

// Items returns the current application list.
func (l *Launcher) Items() []core.Item {
	return l.items.Items()
}

// Query runs a search. Queries replaced by newer ones before they start
// return search.ErrSuperseded.
func (l *Launcher) Query(ctx context.Context, raw string, filters core.Filters) (*core.ResultSet, error) {
	return l.engine.Query(ctx, raw, filters)
}

// History returns launched names, most recent first.
func (l *Launcher) History(ctx context.Context) ([]string, error) {
	return l.history.Get(ctx)
}

// RecordLaunch moves name to the top of the launch history.
func (l *Launcher) RecordLaunch(ctx context.Context, name string) error {
	return l.history.RecordLaunch(ctx, name)
}

// Launch starts item and records it in the history. The message describes
// the outcome for display.
func (l *Launcher) Launch(ctx context.Context, item core.Item, elevated bool) (bool, string) {
	if l.process == nil {
		return false, ErrNoLauncher.Error()
	}
	if err := core.ValidateItem(&item); err != nil {
		return false, fmt.Sprintf("Cannot launch %q: %v", item.Name, err)
	}
	if err := l.process.Launch(ctx, item, elevated); err != nil {
		l.logger.Error("launch failed", "name", item.Name, "elevated", elevated, "err", err)
		return false, fmt.Sprintf("Failed to launch %s: %v", item.Name, err)
	}
	if err := l.history.RecordLaunch(ctx, item.Name); err != nil {
		l.logger.Warn("failed to record launch", "name", item.Name, "err", err)
	}
	return true, "Launched " + item.Name
}

// Folders returns the indexed folders.
func (l *Launcher) Folders() []string {
	return l.folders.Folders()
}

// AddFolder indexes path. The message describes the outcome for display.
func (l *Launcher) AddFolder(ctx context.Context, path string) (bool, string) {
	replaced, err := l.folders.AddFolder(ctx, path)
	switch {
	case err == nil && len(replaced) > 0:
		return true, fmt.Sprintf("Indexed %s, replacing %d nested folder(s)", path, len(replaced))
	case err == nil:
		return true, "Indexed " + path
	case errors.Is(err, folders.ErrAlreadyIndexed):
		return false, "This folder is already indexed"
	case errors.Is(err, folders.ErrParentIndexed):
		return false, "A parent folder is already indexed"
	case errors.Is(err, folders.ErrNotDirectory):
		return false, "Not a folder: " + path
	default:
		l.logger.Error("failed to add folder", "path", path, "err", err)
		return false, fmt.Sprintf("Failed to index %s: %v", path, err)
	}
}

// RemoveFolder drops path from the indexed folders.
func (l *Launcher) RemoveFolder(ctx context.Context, path string) (bool, string) {
	err := l.folders.RemoveFolder(ctx, path)
	switch {
	case err == nil:
		return true, "Removed " + path
	case errors.Is(err, folders.ErrNotIndexed):
		return false, "This folder is not indexed"
	default:
		l.logger.Error("failed to remove folder", "path", path, "err", err)
		return false, fmt.Sprintf("Failed to remove %s: %v", path, err)
	}
}

// Close stops watching, cancels the current icon run and waits for it, then
// closes the store.
func (l *Launcher) Close() error {
	if err := l.folders.Close(); err != nil {
		l.logger.Warn("failed to stop folder watcher", "err", err)
	}
	l.cancel()

	if err := l.IconProgress().Wait(); err != nil {
		l.logger.Debug("icon run ended early", "err", err)
	}
	l.jobs.Release()

	if err := l.backend.Close(); err != nil {
		l.logger.Error("failed to close store", "err", err)
		return err
	}
	return nil
}
