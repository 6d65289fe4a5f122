package main

import (
	"context"
	"time"

	// Packages
	badge "github.com/mutablelogic/go-upload/pkg/badge"
	schema "github.com/mutablelogic/go-upload/pkg/schema"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type CountsCommands struct {
	Counts CountsCommand `cmd:"" group:"BADGES" help:"Show badge counts"`
}

type CountsCommand struct {
	Watch    bool          `name:"watch" short:"w" help:"Keep polling and print every change"`
	Interval time.Duration `name:"interval" default:"30s" help:"Polling interval with --watch"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *CountsCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	if !cmd.Watch {
		counts, err := c.GetCounts(ctx.ctx, ctx.UploadOpts()...)
		if err != nil {
			return err
		}
		return prettyJSON(counts)
	}

	cell := badge.NewCell(schema.Counts{})
	poller, err := badge.New(c, cell,
		badge.WithInterval(cmd.Interval),
		badge.WithLogger(ctx.log),
		badge.WithToken(ctx.Token),
	)
	if err != nil {
		return err
	}

	// Poll and print until interrupted
	group, gctx := errgroup.WithContext(ctx.ctx)
	group.Go(func() error {
		return poller.Run(gctx)
	})
	group.Go(func() error {
		return printCounts(gctx, cell)
	})
	return group.Wait()
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func printCounts(ctx context.Context, cell *badge.Cell) error {
	var last *schema.Counts
	for counts := range cell.Subscribe(ctx) {
		if last != nil && *last == counts {
			continue
		}
		if err := prettyJSON(counts); err != nil {
			return err
		}
		last = &counts
	}
	return nil
}
