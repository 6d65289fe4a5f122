// Package progress delivers upload progress to any number of observers.
//
// The pipeline emits every event through a Broadcast. Observers are either
// plain callbacks (Func) or a Channel, which applies backpressure: the
// upload waits until the consumer has received the event, the consumer has
// stopped, or the upload context ends.
package progress

import (
	"context"
	"math"
	"sync"

	// Packages
	schema "github.com/mutablelogic/go-upload/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// INTERFACES

// Observer receives progress events. Progress may block to apply
// backpressure, but must return once ctx is done.
type Observer interface {
	Progress(context.Context, schema.Progress)
}

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Func adapts a plain callback to an Observer.
type Func func(schema.Progress)

// Broadcast sends each event to every observer in order.
type Broadcast []Observer

// Channel is a cancellable, backpressured Observer. The consumer ranges over
// C() and may call Stop to unsubscribe early; the producer calls Close once
// no more events will be sent, which closes C().
type Channel struct {
	mu     sync.RWMutex
	ch     chan schema.Progress
	stop   chan struct{}
	once   sync.Once
	closed bool
}

var _ Observer = Func(nil)
var _ Observer = Broadcast(nil)
var _ Observer = (*Channel)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewChannel returns a Channel which buffers up to size events before
// applying backpressure. A size of zero makes every send synchronous.
func NewChannel(size int) *Channel {
	return &Channel{
		ch:   make(chan schema.Progress, max(size, 0)),
		stop: make(chan struct{}),
	}
}

// Close closes C(). It waits for any send in flight, and it is safe to call
// Close more than once.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.ch)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (fn Func) Progress(_ context.Context, p schema.Progress) {
	fn(p)
}

func (b Broadcast) Progress(ctx context.Context, p schema.Progress) {
	for _, o := range b {
		o.Progress(ctx, p)
	}
}

// C returns the receive side of the channel.
func (c *Channel) C() <-chan schema.Progress {
	return c.ch
}

// Stop unsubscribes the consumer. Events sent after Stop are discarded.
func (c *Channel) Stop() {
	c.once.Do(func() {
		close(c.stop)
	})
}

// Progress blocks until the consumer receives the event, the consumer has
// stopped, or ctx is done. Events sent after Close are discarded.
func (c *Channel) Progress(ctx context.Context, p schema.Progress) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.ch <- p:
	case <-c.stop:
	case <-ctx.Done():
	}
}

// Percent returns round(part/total*100) clamped to [0, 100], rounding half
// up. It returns 0 when total is not positive.
func Percent(part, total int64) int {
	if total <= 0 {
		return 0
	}
	return clamp(round(float64(part) / float64(total) * 100))
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clamp(v int) int {
	return min(max(v, 0), 100)
}
