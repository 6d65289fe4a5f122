// Package source provides upload sources: local files, in-memory bytes and
// objects in gocloud blob buckets (mem://, file://, s3://).
package source

import (
	"context"
	"io"
	"net/url"

	// Packages
	upload "github.com/mutablelogic/go-upload"
	filetype "github.com/mutablelogic/go-upload/pkg/filetype"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Source is an upload source which holds resources until closed.
type Source interface {
	upload.Source
	io.Closer
}

///////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// sniffLen is the number of leading bytes used for content detection.
const sniffLen = 3072

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Open returns a source for uri. Bucket URLs (mem://, file://, s3://) name an
// object key in the URL path; anything else is treated as a local path.
func Open(ctx context.Context, uri string, opts ...Opt) (Source, error) {
	if u, err := url.Parse(uri); err == nil {
		switch u.Scheme {
		case "mem", "file", "s3":
			return OpenBlob(ctx, u, opts...)
		}
	}
	return OpenFile(uri)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// resolveType fills in a media type for sources which declare none.
func resolveType(declared, name string, r io.ReaderAt, size int64) string {
	return filetype.Resolve(declared, name, func() io.Reader {
		return io.NewSectionReader(r, 0, min(size, sniffLen))
	})
}
