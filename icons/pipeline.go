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


package icons

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/poiesic/wayfind/core"
	"github.com/poiesic/wayfind/platform"
	"github.com/poiesic/wayfind/progress"
	"github.com/poiesic/wayfind/storage"
)

// DefaultIconSize is the pixel size requested from the extractor.
const DefaultIconSize = 32

// Pipeline owns the name to icon path map and fills it in background runs.
type Pipeline struct {
	store      storage.Store
	extractor  platform.IconExtractor
	enumerator platform.PackageEnumerator
	dir        string
	size       int
	scheduler  Scheduler
	logger     *slog.Logger

	mu    sync.RWMutex
	icons map[string]string

	runMu sync.Mutex
}

// Scheduler runs icon jobs in the background. *ants.Pool satisfies it.
type Scheduler interface {
	Submit(task func()) error
}

type goScheduler struct{}

func (goScheduler) Submit(task func()) error {
	go task()
	return nil
}

// Option is a functional option for configuring a Pipeline.
type Option func(*Pipeline)

// WithIconSize sets the pixel size requested from the extractor.
func WithIconSize(size int) Option {
	return func(p *Pipeline) {
		if size > 0 {
			p.size = size
		}
	}
}

// WithScheduler sets where runs execute. Default starts a goroutine per run.
func WithScheduler(s Scheduler) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.scheduler = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a pipeline writing icon files into dir. Either
// collaborator may be nil, in which case the matching phase resolves nothing.
func NewPipeline(store storage.Store, extractor platform.IconExtractor, enumerator platform.PackageEnumerator, dir string, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:      store,
		extractor:  extractor,
		enumerator: enumerator,
		dir:        dir,
		size:       DefaultIconSize,
		scheduler:  goScheduler{},
		logger:     slog.Default(),
		icons:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load restores the persisted icon map. A corrupt value is logged and
// treated as empty.
func (p *Pipeline) Load(ctx context.Context) error {
	data, err := p.store.Get(ctx, storage.KeyIconCache)
	if err != nil {
		return fmt.Errorf("failed to load icon cache: %w", err)
	}

	icons := make(map[string]string)
	if data != nil {
		decoded, err := storage.UnmarshalStringMap(data)
		if err != nil {
			p.logger.Warn("discarding corrupt icon cache", "err", err)
		} else {
			icons = decoded
		}
	}

	p.mu.Lock()
	p.icons = icons
	p.mu.Unlock()
	return nil
}

// Lookup returns the cached icon path for name.
func (p *Pipeline) Lookup(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	path, ok := p.icons[name]
	return path, ok
}

// Snapshot returns a copy of the icon map.
func (p *Pipeline) Snapshot() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return maps.Clone(p.icons)
}

// Run caches icons for every item that has none. The missing set and the
// stream total are fixed before Run returns; the work happens on the
// scheduler and the map is persisted once when it ends. A scheduler that
// refuses the job finishes the stream with its error.
func (p *Pipeline) Run(ctx context.Context, items []core.Item) *progress.Stream {
	missing := p.missing(items)
	stream := progress.NewStream(len(missing))
	err := p.scheduler.Submit(func() {
		p.process(ctx, missing, stream)
	})
	if err != nil {
		p.logger.Error("failed to schedule icon run", "err", err)
		stream.Finish(fmt.Errorf("failed to schedule icon run: %w", err))
	}
	return stream
}

// Rebuild drops every cached entry and runs over items.
func (p *Pipeline) Rebuild(ctx context.Context, items []core.Item) *progress.Stream {
	p.mu.Lock()
	p.icons = make(map[string]string)
	p.mu.Unlock()
	return p.Run(ctx, items)
}

func (p *Pipeline) missing(items []core.Item) []core.Item {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var missing []core.Item
	for _, item := range items {
		if _, ok := p.icons[item.Name]; !ok {
			missing = append(missing, item)
		}
	}
	return missing
}

func (p *Pipeline) process(ctx context.Context, items []core.Item, stream *progress.Stream) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	done := 0
	advance := func() {
		done++
		stream.Report(done)
	}

	var deferred []core.Item
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		if _, ok := p.Lookup(item.Name); ok {
			advance()
			continue
		}

		if path, ok := item.Path(); ok {
			p.fromPath(ctx, item.Name, path)
			advance()
			continue
		}
		if _, ok := item.PackageID(); ok && item.Source == core.SourcePackage {
			deferred = append(deferred, item)
			continue
		}
		advance()
	}

	if len(deferred) > 0 && ctx.Err() == nil {
		p.fromPackages(ctx, deferred, advance)
	}

	if err := p.persist(context.WithoutCancel(ctx)); err != nil {
		p.logger.Error("failed to persist icon cache", "err", err)
	}

	p.logger.Debug("icon run finished", "processed", done, "total", stream.Total())
	stream.Finish(ctx.Err())
}

func (p *Pipeline) fromPath(ctx context.Context, name, path string) {
	if p.extractor == nil {
		return
	}

	data, err := p.extractor.ExtractIcon(ctx, path, p.size)
	if err != nil {
		p.logger.Debug("icon extraction failed", "name", name, "path", path, "err", err)
		return
	}
	file, err := save(p.dir, name, data)
	if err != nil {
		p.logger.Debug("icon rejected", "name", name, "err", err)
		return
	}
	p.record(name, file)
}

// fromPackages resolves every deferred package in one enumerator call and
// copies each package's logo into the cache.
func (p *Pipeline) fromPackages(ctx context.Context, items []core.Item, advance func()) {
	locations := make(map[string]string, len(items))

	if p.enumerator != nil {
		ids := make([]string, len(items))
		for i, item := range items {
			ids[i], _ = item.PackageID()
		}
		resolved, err := p.enumerator.ResolveInstallLocations(ctx, ids)
		if err != nil {
			p.logger.Warn("failed to resolve package install locations", "packages", len(ids), "err", err)
		}
		for _, loc := range resolved {
			if loc.InstallPath != "" {
				locations[loc.LaunchID] = loc.InstallPath
			}
		}
	}

	for _, item := range items {
		if ctx.Err() != nil {
			return
		}
		id, _ := item.PackageID()
		if installPath, ok := locations[id]; ok {
			p.fromInstallPath(item.Name, installPath)
		}
		advance()
	}
}

func (p *Pipeline) fromInstallPath(name, installPath string) {
	logo, err := FindLogo(installPath)
	if err != nil {
		p.logger.Debug("package logo unavailable", "name", name, "install_path", installPath, "err", err)
		return
	}
	file, err := copyFile(p.dir, name, logo)
	if err != nil {
		p.logger.Debug("package logo rejected", "name", name, "logo", logo, "err", err)
		return
	}
	p.record(name, file)
}

func (p *Pipeline) record(name, file string) {
	p.mu.Lock()
	p.icons[name] = file
	p.mu.Unlock()
}

func (p *Pipeline) persist(ctx context.Context) error {
	data := storage.MarshalStringMap(p.Snapshot())
	return p.store.Set(ctx, storage.KeyIconCache, data)
}
