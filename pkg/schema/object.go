package schema

import (
	"encoding/json"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// UploadResult is the normalised descriptor for one uploaded file. FilePath
// and FileURL are always resolved from the same response field; both are
// empty when the backend returned none of the recognised aliases.
type UploadResult struct {
	FilePath string `json:"filePath,omitempty"`
	FileType string `json:"fileType,omitempty"`
	FileURL  string `json:"fileUrl,omitempty"`
}

// FinalizeRequest is the JSON body which triggers server-side reassembly
// of a chunked upload.
type FinalizeRequest struct {
	UploadId string `json:"uploadId"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

// ChunkRequest describes one chunk of a chunked upload. The chunk bytes are
// sent as the "chunk" file part alongside these form fields.
type ChunkRequest struct {
	UploadId    string `json:"uploadId"`
	FileName    string `json:"fileName"`
	ChunkIndex  int    `json:"chunkIndex"`
	TotalChunks int    `json:"totalChunks"`
	Offset      int64  `json:"-"`
	Length      int64  `json:"-"`
}

// rejection is the error body shape returned by the backend on failure.
type rejection struct {
	Message string `json:"message"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	// pathAliases are checked in order; the first non-empty string wins
	pathAliases = []string{"filePath", "url", "path", "location"}
	typeAliases = []string{"fileType", "type", "mimeType", "mimetype"}
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ParseResult decodes a backend success body into an UploadResult. The file
// descriptor is taken from "file", then "files[0]", then the top-level
// object. An error is returned only when data is not valid JSON; missing
// fields leave the result unresolved.
func ParseResult(data []byte) (*UploadResult, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, ErrResponseParse.Wrap(err)
	}
	return NormaliseResult(v), nil
}

// NormaliseResult applies the field-aliasing rules to a decoded JSON value.
func NormaliseResult(v any) *UploadResult {
	result := new(UploadResult)
	desc := descriptor(v)
	if desc == nil {
		return result
	}
	if path := firstString(desc, pathAliases); path != "" {
		result.FilePath = path
		result.FileURL = path
	}
	result.FileType = firstString(desc, typeAliases)
	return result
}

// ParseRejection returns the message field of a backend error body, or
// false when the body is not JSON or carries no message.
func ParseRejection(data []byte) (string, bool) {
	var r rejection
	if err := json.Unmarshal(data, &r); err != nil {
		return "", false
	}
	return r.Message, r.Message != ""
}

// Resolved reports whether the backend supplied a path for the file.
// Unresolved results are a soft failure for the caller to handle.
func (r UploadResult) Resolved() bool {
	return r.FilePath != ""
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r UploadResult) String() string {
	return types.Stringify(r)
}

func (r FinalizeRequest) String() string {
	return types.Stringify(r)
}

func (r ChunkRequest) String() string {
	return types.Stringify(r)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func descriptor(v any) map[string]any {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	if file, ok := obj["file"].(map[string]any); ok {
		return file
	}
	if files, ok := obj["files"].([]any); ok && len(files) > 0 {
		if file, ok := files[0].(map[string]any); ok {
			return file
		}
	}
	return obj
}

func firstString(obj map[string]any, keys []string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
