package upload

import (
	"context"
	"io"

	// Packages
	schema "github.com/mutablelogic/go-upload/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// INTERFACES

// Source is a file payload: random-access bytes with a known length, a file
// name and a declared media type (which may be empty).
type Source interface {
	io.ReaderAt

	// Name returns the file name sent to the backend
	Name() string

	// Type returns the declared media type, or an empty string
	Type() string

	// Size returns the payload length in bytes
	Size() int64
}

// Uploader transfers sources to the backend. Each method blocks until the
// transfer completes, fails, or the context is cancelled.
type Uploader interface {
	// Upload one file, choosing the transport strategy
	Upload(context.Context, Source, ...Opt) (*schema.UploadResult, error)

	// Upload one file as a single multipart request
	UploadFile(context.Context, Source, ...Opt) (*schema.UploadResult, error)

	// Upload one file as a sequence of chunks followed by a finalize request
	UploadChunked(context.Context, Source, ...Opt) (*schema.UploadResult, error)

	// Upload files one at a time, returning results in input order
	UploadFiles(context.Context, []Source, ...Opt) ([]schema.UploadResult, error)
}

// Counter returns the badge counts for the authenticated user.
type Counter interface {
	GetCounts(context.Context, ...Opt) (*schema.Counts, error)
}
