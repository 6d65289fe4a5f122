package httpclient

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"os"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	upload "github.com/mutablelogic/go-upload"
	schema "github.com/mutablelogic/go-upload/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client uploads files to the media backend. JSON requests go through the
// embedded go-client; multipart bodies are streamed through a copy of its
// http.Client so the response status and body can be classified.
type Client struct {
	*client.Client
	*opt
	endpoint *url.URL
	stream   *http.Client
	metrics  *metrics
}

var _ upload.Uploader = (*Client)(nil)
var _ upload.Counter = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a client for the backend at endpoint, e.g.
// "https://api.example.com". Endpoint paths are appended to it.
func New(endpoint string, opts ...Opt) (*Client, error) {
	self := new(Client)

	// Apply options
	if o, err := applyOpts(opts...); err != nil {
		return nil, err
	} else {
		self.opt = o
	}

	// Parse the endpoint
	if u, err := url.Parse(endpoint); err != nil {
		return nil, schema.ErrBadParameter.Withf("invalid endpoint %q: %v", endpoint, err)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		return nil, schema.ErrBadParameter.Withf("invalid endpoint %q", endpoint)
	} else {
		self.endpoint = u
	}

	// Create the JSON client
	cl, err := client.New(append(self.clientOpts, client.OptEndpoint(endpoint))...)
	if err != nil {
		return nil, err
	}
	if isTruthyEnv("UPLOAD_HTTP1") {
		tr, ok := cl.Client.Transport.(*http.Transport)
		if ok && tr != nil {
			tr = tr.Clone()
		} else {
			tr = http.DefaultTransport.(*http.Transport).Clone()
		}
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
		cl.Client.Transport = tr
	}
	self.Client = cl

	// Streaming uploads share the transport, but deadlines come from the
	// request context rather than a client-wide timeout
	stream := *cl.Client
	stream.Timeout = 0
	self.stream = &stream

	// Create the counters
	if m, err := newMetrics(self.meter); err != nil {
		return nil, err
	} else {
		self.metrics = m
	}

	// Return success
	return self, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (c *Client) url(path string) string {
	return c.endpoint.JoinPath(path).String()
}

func isTruthyEnv(key string) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return v != "" && v != "0" && v != "false" && v != "no" && v != "off"
}
