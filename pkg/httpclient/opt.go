package httpclient

import (
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-upload/pkg/schema"
	zerolog "github.com/rs/zerolog"
	metric "go.opentelemetry.io/otel/metric"
	noop "go.opentelemetry.io/otel/metric/noop"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type opt struct {
	clientOpts    []client.ClientOpt
	tracer        trace.Tracer
	meter         metric.Meter
	log           zerolog.Logger
	singleTimeout time.Duration
	chunkTimeout  time.Duration
}

// Opt configures a Client
type Opt func(*opt) error

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func applyOpts(opts ...Opt) (*opt, error) {
	o := opt{
		meter:         noop.NewMeterProvider().Meter(schema.MeterName),
		log:           zerolog.Nop(),
		singleTimeout: schema.SingleShotTimeout,
		chunkTimeout:  schema.ChunkTimeout,
	}
	for _, fn := range opts {
		if err := fn(&o); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithClientOpts passes options through to the underlying go-client, for
// example client.OptTrace to dump requests.
func WithClientOpts(opts ...client.ClientOpt) Opt {
	return func(o *opt) error {
		o.clientOpts = append(o.clientOpts, opts...)
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer. Each upload, chunk and finalize
// request produces a span.
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opt) error {
		o.tracer = tracer
		return nil
	}
}

// WithMeter sets the meter used for the upload counters
func WithMeter(meter metric.Meter) Opt {
	return func(o *opt) error {
		if meter == nil {
			return schema.ErrBadParameter.With("nil meter")
		}
		o.meter = meter
		return nil
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Opt {
	return func(o *opt) error {
		o.log = log
		return nil
	}
}

// WithTimeouts sets the ceiling for a single-shot upload and for each chunk
// or finalize request. A zero value keeps the default.
func WithTimeouts(single, chunk time.Duration) Opt {
	return func(o *opt) error {
		if single < 0 || chunk < 0 {
			return schema.ErrBadParameter.Withf("invalid timeouts: %v, %v", single, chunk)
		}
		if single > 0 {
			o.singleTimeout = single
		}
		if chunk > 0 {
			o.chunkTimeout = chunk
		}
		return nil
	}
}
