package badge

import (
	"context"
	"time"

	// Packages
	upload "github.com/mutablelogic/go-upload"
	schema "github.com/mutablelogic/go-upload/pkg/schema"
	zerolog "github.com/rs/zerolog"
	singleflight "golang.org/x/sync/singleflight"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Poller refreshes a Cell from the backend on an interval. Failed refreshes
// are logged and the last known counts are kept.
type Poller struct {
	opt
	fetcher upload.Counter
	cell    *Cell
	group   singleflight.Group
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func New(fetcher upload.Counter, cell *Cell, opts ...Opt) (*Poller, error) {
	if fetcher == nil || cell == nil {
		return nil, schema.ErrBadParameter.With("fetcher and cell are required")
	}
	self := &Poller{
		opt: opt{
			interval: schema.DefaultPollInterval,
			log:      zerolog.Nop(),
		},
		fetcher: fetcher,
		cell:    cell,
	}
	for _, fn := range opts {
		if err := fn(&self.opt); err != nil {
			return nil, err
		}
	}
	return self, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Run refreshes immediately, then on every interval until ctx ends
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refresh fetches the counts and stores them in the cell. Concurrent calls
// share one request. On failure the cell is unchanged and its current value
// is returned with the error.
func (p *Poller) Refresh(ctx context.Context) (schema.Counts, error) {
	v, err, shared := p.group.Do("counts", func() (any, error) {
		counts, err := p.fetcher.GetCounts(ctx, p.reqOpts...)
		if err != nil {
			return nil, err
		}
		p.cell.Set(*counts)
		return *counts, nil
	})
	if err != nil {
		if ctx.Err() == nil {
			p.log.Warn().Err(err).Msg("badge refresh failed")
		}
		return p.cell.Get(), err
	}
	p.log.Debug().Bool("shared", shared).Int("total", v.(schema.Counts).Total()).Msg("badge refresh")
	return v.(schema.Counts), nil
}

// Cell returns the cell updated by the poller
func (p *Poller) Cell() *Cell {
	return p.cell
}
