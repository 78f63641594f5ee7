package itemcache

import (
	"context"
	"testing"

	"github.com/poiesic/wayfind/core"
	"github.com/stretchr/testify/assert"
)

type blockingSource struct {
	started chan struct{}
	release chan struct{}
	items   []core.Item
}

func (s *blockingSource) Build(ctx context.Context) []core.Item {
	close(s.started)
	<-s.release
	return s.items
}

func TestCache_Reload(t *testing.T) {
	src := &blockingSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
		items: []core.Item{
			core.NewItem("Notepad", core.KindApp, core.SourceShortcut, core.PathTarget("/n.lnk")),
		},
	}
	c := NewCache(src)
	assert.Empty(t, c.Items())
	assert.False(t, c.Building())

	done := make(chan struct{})
	go func() {
		c.Reload(context.Background())
		close(done)
	}()

	<-src.started
	assert.True(t, c.Building())
	assert.Empty(t, c.Items(), "readers see the old snapshot until the swap")

	close(src.release)
	<-done
	assert.False(t, c.Building())
	assert.Len(t, c.Items(), 1)
	assert.Contains(t, c.Names(), "Notepad")
}

type nilSource struct{}

func (nilSource) Build(context.Context) []core.Item { return nil }

func TestCache_NilBuildIsEmpty(t *testing.T) {
	c := NewCache(nilSource{})
	items := c.Reload(context.Background())
	assert.NotNil(t, items)
	assert.NotNil(t, c.Items())
}
