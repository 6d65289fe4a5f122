package httpclient

import (
	"context"
	"errors"

	// Packages
	schema "github.com/mutablelogic/go-upload/pkg/schema"
	attribute "go.opentelemetry.io/otel/attribute"
	metric "go.opentelemetry.io/otel/metric"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type metrics struct {
	files  metric.Int64Counter
	bytes  metric.Int64Counter
	chunks metric.Int64Counter
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func newMetrics(meter metric.Meter) (*metrics, error) {
	files, err := meter.Int64Counter("upload.files",
		metric.WithDescription("Files uploaded, by transport and outcome"),
	)
	if err != nil {
		return nil, err
	}
	bytes, err := meter.Int64Counter("upload.bytes",
		metric.WithDescription("Bytes of successfully uploaded files"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}
	chunks, err := meter.Int64Counter("upload.chunks",
		metric.WithDescription("Chunk requests, by outcome"),
	)
	if err != nil {
		return nil, err
	}
	return &metrics{files: files, bytes: bytes, chunks: chunks}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (m *metrics) file(ctx context.Context, transport string, size int64, err error) {
	attrs := metric.WithAttributes(
		attribute.String("transport", transport),
		attribute.String("outcome", outcome(err)),
	)
	m.files.Add(ctx, 1, attrs)
	if err == nil {
		m.bytes.Add(ctx, size, attrs)
	}
}

func (m *metrics) chunk(ctx context.Context, err error) {
	m.chunks.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
}

func outcome(err error) string {
	var uerr *schema.Error
	if err == nil {
		return "ok"
	} else if !errors.As(err, &uerr) {
		return "error"
	}
	switch uerr.Code {
	case schema.ErrNetwork:
		return "network"
	case schema.ErrTimeout:
		return "timeout"
	case schema.ErrServerRejected:
		return "rejected"
	case schema.ErrResponseParse:
		return "parse"
	case schema.ErrCancelled:
		return "cancelled"
	case schema.ErrChunkUploadFailed:
		return "chunk"
	case schema.ErrFinalizeFailed:
		return "finalize"
	default:
		return "error"
	}
}
