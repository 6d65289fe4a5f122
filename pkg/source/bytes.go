package source

import "bytes"

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Bytes is an in-memory source.
type Bytes struct {
	*bytes.Reader
	name      string
	mediaType string
}

var _ Source = (*Bytes)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewBytes returns a source for data. The media type is kept as declared,
// and may be empty.
func NewBytes(name, mediaType string, data []byte) *Bytes {
	return &Bytes{
		Reader:    bytes.NewReader(data),
		name:      name,
		mediaType: mediaType,
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (b *Bytes) Name() string {
	return b.name
}

func (b *Bytes) Type() string {
	return b.mediaType
}

func (b *Bytes) Close() error {
	return nil
}
