package upload

import (
	"context"

	// Packages
	progress "github.com/mutablelogic/go-upload/pkg/progress"
	schema "github.com/mutablelogic/go-upload/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type opt struct {
	token     string
	chunksize int64
	chunked   bool
	observers progress.Broadcast
}

// Opt represents a function that modifies the options of one upload call
type Opt func(*opt) error

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// ApplyOpts applies the given options over the defaults
func ApplyOpts(opts ...Opt) (*opt, error) {
	o := opt{
		chunksize: schema.DefaultChunkSize,
	}

	// Apply the options
	for _, fn := range opts {
		if err := fn(&o); err != nil {
			return nil, err
		}
	}

	// Return success
	return &o, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - GET

// Token returns the bearer token, or an empty string for anonymous requests
func (o *opt) Token() string {
	return o.token
}

// ChunkSize returns the slice size for chunked uploads
func (o *opt) ChunkSize() int64 {
	return o.chunksize
}

// ChunkedLargeFiles reports whether the dispatcher should use the chunked
// transport for large files
func (o *opt) ChunkedLargeFiles() bool {
	return o.chunked
}

// Observers returns the progress observers for the call
func (o *opt) Observers() progress.Broadcast {
	return o.observers
}

// Emit sends a progress event to every observer
func (o *opt) Emit(ctx context.Context, p schema.Progress) {
	o.observers.Progress(ctx, p)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - SET

// Set the bearer token sent in the Authorization header
func WithToken(token string) Opt {
	return func(o *opt) error {
		o.token = token
		return nil
	}
}

// Set the chunk size for chunked uploads
func WithChunkSize(size int64) Opt {
	return func(o *opt) error {
		if size <= 0 {
			return schema.ErrBadParameter.Withf("invalid chunk size: %d", size)
		}
		o.chunksize = size
		return nil
	}
}

// Use the chunked transport for files larger than schema.LargeFileThreshold
// when uploading through the dispatcher
func WithChunkedLargeFiles() Opt {
	return func(o *opt) error {
		o.chunked = true
		return nil
	}
}

// Add a progress callback
func WithProgress(fn func(schema.Progress)) Opt {
	return func(o *opt) error {
		if fn == nil {
			return schema.ErrBadParameter.With("nil progress callback")
		}
		o.observers = append(o.observers, progress.Func(fn))
		return nil
	}
}

// Add a progress observer, for example a *progress.Channel
func WithObserver(observer progress.Observer) Opt {
	return func(o *opt) error {
		if observer == nil {
			return schema.ErrBadParameter.With("nil progress observer")
		}
		o.observers = append(o.observers, observer)
		return nil
	}
}
