package search

import (
	"context"
	"sync"
)

type coalescerState int

const (
	stateIdle coalescerState = iota
	stateExecuting
	stateExecutingPending
)

// waiter is a submitted call waiting for the running one to finish. ready
// receives nil when the call may start, or ErrSuperseded.
type waiter struct {
	ready chan error
}

// Coalescer runs at most one call at a time and keeps at most one waiting.
//
// Transitions:
//
//	Idle              --submit-->   Executing          (caller runs now)
//	Executing         --submit-->   Executing+Pending  (caller waits)
//	Executing+Pending --submit-->   Executing+Pending  (old waiter superseded)
//	Executing+Pending --complete--> Executing          (waiter starts)
//	Executing         --complete--> Idle
//
// A running call always completes. A waiting call whose context ends
// withdraws without running.
type Coalescer struct {
	mu      sync.Mutex
	state   coalescerState
	pending *waiter
}

// NewCoalescer creates an idle coalescer.
func NewCoalescer() *Coalescer {
	return &Coalescer{}
}

// Do runs fn under the single-flight discipline. It returns ErrSuperseded
// if a newer call replaced this one before it started, or the context error
// if ctx ended while waiting. Otherwise fn has run and Do returns nil.
func (c *Coalescer) Do(ctx context.Context, fn func(context.Context)) error {
	c.mu.Lock()
	if c.state == stateIdle {
		c.state = stateExecuting
		c.mu.Unlock()
		c.run(ctx, fn)
		return nil
	}

	w := &waiter{ready: make(chan error, 1)}
	if c.pending != nil {
		c.pending.ready <- ErrSuperseded
	}
	c.pending = w
	c.state = stateExecutingPending
	c.mu.Unlock()

	select {
	case err := <-w.ready:
		if err != nil {
			return err
		}
		c.run(ctx, fn)
		return nil
	case <-ctx.Done():
	}

	c.mu.Lock()
	if c.pending == w {
		c.pending = nil
		c.state = stateExecuting
		c.mu.Unlock()
		return ctx.Err()
	}
	c.mu.Unlock()

	// Resolved while the context was ending.
	if err := <-w.ready; err != nil {
		return err
	}
	c.complete()
	return ctx.Err()
}

func (c *Coalescer) run(ctx context.Context, fn func(context.Context)) {
	defer c.complete()
	fn(ctx)
}

// complete hands off to the waiting call, if any.
func (c *Coalescer) complete() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		c.state = stateIdle
		return
	}
	next := c.pending
	c.pending = nil
	c.state = stateExecuting
	next.ready <- nil
}

func (c *Coalescer) current() coalescerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
