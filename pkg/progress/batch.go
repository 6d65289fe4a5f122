package progress

import (
	"context"
	"sync"

	// Packages
	schema "github.com/mutablelogic/go-upload/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Batch maps the per-file progress of a sequential batch of files onto one
// aggregate percentage. For file i of n, a per-file value p becomes
// round(min(99, i/n*100 + p/n)); the terminal 100 is only sent by Done.
type Batch struct {
	mu       sync.Mutex
	observer Observer
	count    int
	last     int
}

type batchFile struct {
	*Batch
	index int
}

var _ Observer = batchFile{}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewBatch returns a Batch for count files which forwards to observer.
func NewBatch(observer Observer, count int) *Batch {
	return &Batch{observer: observer, count: count}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// File returns the Observer for the file at index. It expects events whose
// Percent is the per-file completion.
func (b *Batch) File(index int) Observer {
	return batchFile{b, index}
}

// Done sends the terminal 100 once every file has resolved.
func (b *Batch) Done(ctx context.Context) {
	b.mu.Lock()
	b.last = 100
	b.mu.Unlock()
	b.observer.Progress(ctx, schema.Progress{
		Index:   max(b.count-1, 0),
		Count:   b.count,
		Percent: 100,
	})
}

func (f batchFile) Progress(ctx context.Context, p schema.Progress) {
	n := float64(max(f.count, 1))
	overall := min(99, float64(f.index)/n*100+float64(p.Percent)/n)

	// Never report less than has already been reported
	f.mu.Lock()
	percent := max(clamp(round(overall)), f.last)
	f.last = percent
	f.mu.Unlock()

	f.observer.Progress(ctx, schema.Progress{
		Index:   f.index,
		Count:   f.count,
		Name:    p.Name,
		Percent: percent,
	})
}
