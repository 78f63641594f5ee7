package search

import (
	"log/slog"

	"github.com/poiesic/wayfind/core"
)

// QueryMonitor provides hooks to observe query execution.
type QueryMonitor interface {
	Start(query string)
	AfterCandidates(kind core.Kind, count int)
	AfterHistoryRanking(history []string)
	BestMatch(item core.Item)
	Superseded(query string)
	Finish(results *core.ResultSet)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                     {}
func (n *noopMonitor) AfterCandidates(_ core.Kind, _ int) {}
func (n *noopMonitor) AfterHistoryRanking(_ []string)     {}
func (n *noopMonitor) BestMatch(_ core.Item)              {}
func (n *noopMonitor) Superseded(_ string)                {}
func (n *noopMonitor) Finish(_ *core.ResultSet)           {}

// LogMonitor writes query events to a logger at debug level.
type LogMonitor struct {
	Logger *slog.Logger
}

var _ QueryMonitor = (*LogMonitor)(nil)

func (m *LogMonitor) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}

func (m *LogMonitor) Start(query string) {
	m.logger().Debug("query started", "query", query)
}

func (m *LogMonitor) AfterCandidates(kind core.Kind, count int) {
	m.logger().Debug("candidates", "kind", kind.String(), "count", count)
}

func (m *LogMonitor) AfterHistoryRanking(history []string) {
	m.logger().Debug("ranked by history", "entries", len(history))
}

func (m *LogMonitor) BestMatch(item core.Item) {
	m.logger().Debug("best match", "name", item.Name, "kind", item.Kind.String())
}

func (m *LogMonitor) Superseded(query string) {
	m.logger().Debug("query superseded", "query", query)
}

func (m *LogMonitor) Finish(results *core.ResultSet) {
	m.logger().Debug("query finished", "results", results.Len())
}
