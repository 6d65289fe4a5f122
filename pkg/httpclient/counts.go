package httpclient

import (
	"context"

	// Packages
	client "github.com/mutablelogic/go-client"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	upload "github.com/mutablelogic/go-upload"
	schema "github.com/mutablelogic/go-upload/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetCounts returns the badge counters for the authenticated user.
func (c *Client) GetCounts(ctx context.Context, opts ...upload.Opt) (_ *schema.Counts, err error) {
	o, err := upload.ApplyOpts(opts...)
	if err != nil {
		return nil, err
	}

	// OTEL span
	ctx, endFunc := otel.StartSpan(c.tracer, ctx, spanName("GetCounts"))
	defer func() { endFunc(err) }()

	// Perform request
	var response schema.Counts
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, reqOpts(schema.CountsPath, o.Token())...); err != nil {
		return nil, classifyResponse(ctx, err)
	}

	// Return the response
	return &response, nil
}
