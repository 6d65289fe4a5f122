// Package badge keeps the navigation badge counters up to date. A Cell owns
// the current counts; a Poller refreshes it from the backend.
package badge

import (
	"context"
	"sync"

	// Packages
	schema "github.com/mutablelogic/go-upload/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Cell holds the current badge counts. Subscribers receive the latest
// snapshot after every change; a slow subscriber only misses intermediate
// values.
type Cell struct {
	mu     sync.Mutex
	counts schema.Counts
	subs   map[chan schema.Counts]struct{}
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewCell(initial schema.Counts) *Cell {
	return &Cell{
		counts: initial,
		subs:   make(map[chan schema.Counts]struct{}),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Get returns the current counts
func (c *Cell) Get() schema.Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts
}

// Set replaces the counts and notifies subscribers
func (c *Cell) Set(counts schema.Counts) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = counts
	c.publish()
}

// Apply applies an event to the counts, notifies subscribers and returns
// the new counts
func (c *Cell) Apply(e schema.CountsEvent) schema.Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = c.counts.Apply(e)
	c.publish()
	return c.counts
}

// Subscribe returns a channel which receives the current counts, and then
// every change until ctx ends. The channel is closed when ctx ends.
func (c *Cell) Subscribe(ctx context.Context) <-chan schema.Counts {
	ch := make(chan schema.Counts, 1)

	c.mu.Lock()
	c.subs[ch] = struct{}{}
	ch <- c.counts
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.subs, ch)
		close(ch)
		c.mu.Unlock()
	}()
	return ch
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// publish replaces any unread snapshot with the current counts. Must be
// called with the lock held.
func (c *Cell) publish() {
	for ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- c.counts
	}
}
