package search

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/poiesic/wayfind/catalog"
	"github.com/poiesic/wayfind/core"
)

// AppSource provides the current application list.
type AppSource interface {
	Items() []core.Item
}

// EntrySource provides the indexed file and folder entries.
type EntrySource interface {
	Entries() []core.Item
}

// HistorySource provides launch history, most recent first.
type HistorySource interface {
	Get(ctx context.Context) ([]string, error)
}

// Engine answers queries against read-only snapshots of the launcher's
// indices.
type Engine struct {
	apps      AppSource
	entries   EntrySource
	history   HistorySource
	settings  []core.Item
	commands  []core.Item
	shortcuts []core.Item
	monitor   QueryMonitor
	logger    *slog.Logger
	coalescer *Coalescer
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithMonitor sets the query monitor.
func WithMonitor(monitor QueryMonitor) Option {
	return func(e *Engine) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		e.monitor = monitor
		return nil
	}
}

// WithEntries sets the source of indexed files and folders.
func WithEntries(entries EntrySource) Option {
	return func(e *Engine) error {
		e.entries = entries
		return nil
	}
}

// WithHistory sets the launch history used for ranking.
func WithHistory(history HistorySource) Option {
	return func(e *Engine) error {
		e.history = history
		return nil
	}
}

// WithSettings replaces the settings catalog.
func WithSettings(items []core.Item) Option {
	return func(e *Engine) error {
		e.settings = items
		return nil
	}
}

// WithCommands replaces the command catalog.
func WithCommands(items []core.Item) Option {
	return func(e *Engine) error {
		e.commands = items
		return nil
	}
}

// WithFolderShortcuts replaces the predefined folder shortcuts.
func WithFolderShortcuts(items []core.Item) Option {
	return func(e *Engine) error {
		e.shortcuts = items
		return nil
	}
}

// NewEngine creates a query engine. Settings, commands and folder shortcuts
// default to the built-in catalogs.
func NewEngine(apps AppSource, opts ...Option) (*Engine, error) {
	if apps == nil {
		return nil, ErrAppSourceRequired
	}

	e := &Engine{
		apps:      apps,
		settings:  catalog.Settings(),
		commands:  catalog.Commands(),
		shortcuts: catalog.Folders(""),
		monitor:   &noopMonitor{},
		logger:    slog.Default(),
		coalescer: NewCoalescer(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Query runs raw through the coalescer. A query replaced by a newer one
// before it started returns ErrSuperseded.
func (e *Engine) Query(ctx context.Context, raw string, filters core.Filters) (*core.ResultSet, error) {
	var results *core.ResultSet
	err := e.coalescer.Do(ctx, func(ctx context.Context) {
		results = e.Execute(ctx, core.Query{Raw: raw, Filters: filters})
	})
	if errors.Is(err, ErrSuperseded) {
		e.monitor.Superseded(raw)
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Execute runs q immediately, bypassing the coalescer.
func (e *Engine) Execute(ctx context.Context, q core.Query) *core.ResultSet {
	query := core.Normalize(q.Raw)
	e.monitor.Start(q.Raw)

	results := &core.ResultSet{}
	f := q.Filters
	history := e.recentLaunches(ctx)
	var entries []core.Item
	if query != "" && (f.Folders || f.Files) {
		entries = e.indexed()
	}

	if f.Apps {
		results.Apps = substring(e.apps.Items(), query)
		byRecency(results.Apps, history)
		e.monitor.AfterHistoryRanking(history)
		e.monitor.AfterCandidates(core.KindApp, len(results.Apps))
	}
	if f.Commands {
		results.Commands = substring(e.commands, query)
		e.monitor.AfterCandidates(core.KindCommand, len(results.Commands))
	}
	if f.Settings {
		results.Settings = substring(e.settings, query)
		e.monitor.AfterCandidates(core.KindSetting, len(results.Settings))
	}
	if f.Folders {
		results.Folders = prefix(e.shortcuts, core.KindFolder, query)
		if query != "" {
			results.Folders = append(results.Folders, prefix(entries, core.KindFolder, query)...)
		}
		e.monitor.AfterCandidates(core.KindFolder, len(results.Folders))
	}
	if f.Files {
		if query != "" {
			results.Files = prefix(entries, core.KindFile, query)
		}
		e.monitor.AfterCandidates(core.KindFile, len(results.Files))
	}

	if query != "" {
		e.selectBest(results, query, history)
	}

	e.monitor.Finish(results)
	return results
}

// selectBest promotes the best match from the first enabled category that
// has candidates, in the order apps, commands, settings, folders, files.
func (e *Engine) selectBest(results *core.ResultSet, query string, history []string) {
	for _, list := range []*[]core.Item{
		&results.Apps,
		&results.Commands,
		&results.Settings,
		&results.Folders,
		&results.Files,
	} {
		if len(*list) == 0 {
			continue
		}
		i := pickBest(*list, query, history)
		best := (*list)[i]
		*list = slices.Delete(*list, i, i+1)
		results.BestMatch = &best
		e.monitor.BestMatch(best)
		return
	}
}

func (e *Engine) indexed() []core.Item {
	if e.entries == nil {
		return nil
	}
	return e.entries.Entries()
}

func (e *Engine) recentLaunches(ctx context.Context) []string {
	if e.history == nil {
		return nil
	}
	history, err := e.history.Get(ctx)
	if err != nil {
		e.logger.Warn("failed to read launch history", "err", err)
		return nil
	}
	return history
}
