package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-upload/pkg/schema"
	version "github.com/mutablelogic/go-upload/pkg/version"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// send posts a streaming multipart payload and returns the body of a 2xx
// response. Any other outcome is returned as a *schema.Error. The payload is
// not closed by the transport: the caller closes it with closePayload once
// the request context has ended.
func (c *Client) send(ctx context.Context, path string, payload client.Payload, token string) ([]byte, error) {
	// Nothing is dialled once the context has ended
	if err := ctx.Err(); err != nil {
		return nil, classify(ctx, err)
	}

	req, err := http.NewRequestWithContext(ctx, payload.Method(), c.url(path), io.NopCloser(payload))
	if err != nil {
		return nil, schema.ErrBadParameter.Wrap(err)
	}
	req.Header.Set(types.ContentTypeHeader, payload.Type())
	req.Header.Set("Accept", payload.Accept())
	req.Header.Set("User-Agent", version.UserAgent())
	if token != "" {
		req.Header.Set(schema.AuthorizationHeader, schema.BearerPrefix+token)
	}

	// A source read error inside the encoder also ends the request here and
	// is reported as a network failure
	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(ctx, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if message, ok := schema.ParseRejection(data); ok {
			return nil, schema.ServerRejected(resp.StatusCode, message)
		}
		return nil, schema.ServerRejected(resp.StatusCode, fmt.Sprintf("upload failed: %d", resp.StatusCode))
	}
	return data, nil
}

// closePayload stops the encoder goroutine of a streaming payload and waits
// for it to return
func closePayload(payload client.Payload) {
	if closer, ok := payload.(io.Closer); ok {
		closer.Close()
	}
}

// reqOpts returns the go-client request options shared by JSON requests
func reqOpts(path, token string) []client.RequestOpt {
	opts := []client.RequestOpt{
		client.OptPath(path),
		client.OptReqHeader("User-Agent", version.UserAgent()),
	}
	if token != "" {
		opts = append(opts, client.OptReqHeader(schema.AuthorizationHeader, schema.BearerPrefix+token))
	}
	return opts
}

// classify maps a transport error onto the upload error codes. A deadline
// set with context.WithTimeoutCause(..., schema.ErrTimeout) is a timeout;
// any other ended context is a cancellation.
func classify(ctx context.Context, err error) error {
	var uerr *schema.Error
	switch {
	case errors.As(err, &uerr):
		return err
	case errors.Is(context.Cause(ctx), schema.ErrTimeout):
		return schema.ErrTimeout.Wrap(err)
	case ctx.Err() != nil:
		return schema.ErrCancelled.Wrap(err)
	}
	var netErr *url.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return schema.ErrTimeout.Wrap(err)
	}
	return schema.ErrNetwork.Wrap(err)
}

// classifyResponse maps an error from a go-client request. Errors which are
// not transport failures are rejections by the server.
func classifyResponse(ctx context.Context, err error) error {
	var uerr *schema.Error
	var netErr *url.Error
	switch {
	case errors.As(err, &uerr):
		return err
	case ctx.Err() != nil, errors.As(err, &netErr):
		return classify(ctx, err)
	default:
		return &schema.Error{Code: schema.ErrServerRejected, Message: err.Error()}
	}
}
