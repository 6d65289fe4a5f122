package httpclient

import (
	"io"
	"net/http"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-upload/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// resultUnmarshaler decodes any of the backend's success shapes into a
// normalised schema.UploadResult.
type resultUnmarshaler struct {
	result *schema.UploadResult
}

var _ client.Unmarshaler = (*resultUnmarshaler)(nil)

///////////////////////////////////////////////////////////////////////////////
// INTERFACE IMPLEMENTATION

func (r *resultUnmarshaler) Unmarshal(_ http.Header, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	result, err := schema.ParseResult(data)
	if err != nil {
		return err
	}
	r.result = result
	return nil
}
