package main

import (
	"os"

	// Packages
	client "github.com/mutablelogic/go-client"
	upload "github.com/mutablelogic/go-upload"
	httpclient "github.com/mutablelogic/go-upload/pkg/httpclient"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Client builds an upload client from the global flags
func (g *Globals) Client() (*httpclient.Client, error) {
	opts := []client.ClientOpt{}
	if g.Trace {
		opts = append(opts, client.OptTrace(os.Stderr, false))
	}
	if g.Timeout > 0 {
		opts = append(opts, client.OptTimeout(g.Timeout))
	}
	return httpclient.New(g.Endpoint,
		httpclient.WithClientOpts(opts...),
		httpclient.WithLogger(g.log),
	)
}

// UploadOpts returns the per-call options shared by every command
func (g *Globals) UploadOpts() []upload.Opt {
	if g.Token == "" {
		return nil
	}
	return []upload.Opt{upload.WithToken(g.Token)}
}
