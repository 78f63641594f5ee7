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


// Package history tracks the most-recently-launched item names.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/poiesic/wayfind/storage"
)

// DefaultTTL is how long a read of the launch stack is reused.
const DefaultTTL = 3 * time.Second

const stackKey = "stack"

// Tracker owns the launch stack: item names, most recent first, without
// duplicates. Reads are served from a short-lived cache that every write
// invalidates.
type Tracker struct {
	store  storage.Store
	logger *slog.Logger
	ttl    time.Duration

	mu    sync.Mutex
	cache *expirable.LRU[string, []string]
}

// Option is a functional option for configuring a Tracker.
type Option func(*Tracker)

// WithTTL sets how long a read is cached.
func WithTTL(ttl time.Duration) Option {
	return func(t *Tracker) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// NewTracker creates a tracker persisting to store.
func NewTracker(store storage.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		logger: slog.Default(),
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.cache = expirable.NewLRU[string, []string](1, nil, t.ttl)
	return t
}

// Get returns the launch stack. The result must not be modified.
func (t *Tracker) Get(ctx context.Context) ([]string, error) {
	if stack, ok := t.cache.Get(stackKey); ok {
		return stack, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if stack, ok := t.cache.Get(stackKey); ok {
		return stack, nil
	}
	stack, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	t.cache.Add(stackKey, stack)
	return stack, nil
}

// RecordLaunch moves name to the front of the stack and persists it.
func (t *Tracker) RecordLaunch(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	stack, err := t.load(ctx)
	if err != nil {
		return err
	}
	next := make([]string, 0, len(stack)+1)
	next = append(next, name)
	for _, n := range stack {
		if n != name {
			next = append(next, n)
		}
	}
	return t.save(ctx, next)
}

// Prune drops names that are not in present. It reports how many were removed.
func (t *Tracker) Prune(ctx context.Context, present map[string]struct{}) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stack, err := t.load(ctx)
	if err != nil {
		return 0, err
	}
	kept := slices.DeleteFunc(slices.Clone(stack), func(name string) bool {
		_, ok := present[name]
		return !ok
	})
	removed := len(stack) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := t.save(ctx, kept); err != nil {
		return 0, err
	}
	t.logger.Debug("pruned launch history", "removed", removed)
	return removed, nil
}

// load reads the stack from the store. Must be called with mu held.
func (t *Tracker) load(ctx context.Context) ([]string, error) {
	data, err := t.store.Get(ctx, storage.KeyLaunchStack)
	if err != nil {
		return nil, fmt.Errorf("failed to load launch history: %w", err)
	}
	if data == nil {
		return []string{}, nil
	}
	stack, err := storage.UnmarshalStrings(data)
	if err != nil {
		t.logger.Warn("discarding corrupt launch history", "err", err)
		return []string{}, nil
	}
	return stack, nil
}

// save persists stack and drops the cached read. Must be called with mu held.
func (t *Tracker) save(ctx context.Context, stack []string) error {
	t.cache.Purge()
	if err := t.store.Set(ctx, storage.KeyLaunchStack, storage.MarshalStrings(stack)); err != nil {
		return fmt.Errorf("failed to persist launch history: %w", err)
	}
	return nil
}
