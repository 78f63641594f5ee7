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


// Package progress reports the advance of background batches.
//
// A Stream is produced by a batch and consumed either by ranging over
// Updates until the channel closes, or by polling Latest and waiting on
// Done. Tracker renders a stream to a terminal.
package progress

import (
	"sync"
)

// Update is a single (current, total) progress report.
type Update struct {
	Current int
	Total   int
}

// Stream carries progress for one batch with a fixed total.
// The updates channel is buffered to hold every report, so a producer that
// reports at most once per item never blocks on a slow consumer.
type Stream struct {
	total   int
	updates chan Update
	done    chan struct{}

	mu       sync.Mutex
	latest   Update
	err      error
	finished bool
}

// NewStream creates a stream for a batch of total items.
func NewStream(total int) *Stream {
	if total < 0 {
		total = 0
	}
	return &Stream{
		total:   total,
		updates: make(chan Update, total+1),
		done:    make(chan struct{}),
		latest:  Update{Total: total},
	}
}

// Completed returns a stream that has already finished with nothing to do.
func Completed() *Stream {
	s := NewStream(0)
	s.Finish(nil)
	return s
}

// Total returns the number of items in the batch.
func (s *Stream) Total() int {
	return s.total
}

// Updates returns the channel of progress reports. It is closed when the
// batch finishes.
func (s *Stream) Updates() <-chan Update {
	return s.updates
}

// Done is closed when the batch finishes.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Latest returns the most recent report.
func (s *Stream) Latest() Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Err returns the terminal error, or nil while running or after success.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the batch finishes and returns its terminal error.
func (s *Stream) Wait() error {
	<-s.done
	return s.Err()
}

// Report records that current items have been processed. Reports after
// Finish, or that would move progress backwards, are dropped.
func (s *Stream) Report(current int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished || current < s.latest.Current {
		return
	}
	if current > s.total {
		current = s.total
	}
	s.latest = Update{Current: current, Total: s.total}

	select {
	case s.updates <- s.latest:
	default:
	}
}

// Finish moves the stream to its terminal state. Only the first call has
// any effect.
func (s *Stream) Finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return
	}
	s.finished = true
	s.err = err
	close(s.updates)
	close(s.done)
}
