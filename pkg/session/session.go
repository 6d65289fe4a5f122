// Package session describes a chunked upload session: the token which
// correlates every chunk with the finalize request, and the byte range of
// each chunk. Sessions are never persisted and cannot be resumed.
package session

import (
	"fmt"
	"strconv"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	schema "github.com/mutablelogic/go-upload/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Session is one chunked upload of one file.
type Session struct {
	Token     string `json:"uploadId"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	Size      int64  `json:"size"`
	ChunkSize int64  `json:"chunkSize"`
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a session for a file of the given size, with a fresh token.
func New(name, mediaType string, size, chunkSize int64) (*Session, error) {
	if size < 0 {
		return nil, schema.ErrBadParameter.Withf("invalid file size: %d", size)
	}
	if chunkSize <= 0 {
		return nil, schema.ErrBadParameter.Withf("invalid chunk size: %d", chunkSize)
	}
	return &Session{
		Token:     NewToken(),
		FileName:  name,
		FileType:  mediaType,
		Size:      size,
		ChunkSize: chunkSize,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// NewToken returns a session token: the upload start time in milliseconds
// followed by a random UUID, so tokens sort by creation time and do not
// collide across concurrent sessions.
func NewToken() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + uuid.NewString()
}

// TotalChunks returns ceil(Size/ChunkSize). An empty file has one empty chunk.
func (s *Session) TotalChunks() int {
	if s.Size == 0 {
		return 1
	}
	return int(1 + (s.Size-1)/s.ChunkSize)
}

// Range returns the offset and length of the chunk at index.
func (s *Session) Range(index int) (int64, int64) {
	offset := int64(index) * s.ChunkSize
	return offset, max(min(s.ChunkSize, s.Size-offset), 0)
}

// Chunk returns the wire description of the chunk at index.
func (s *Session) Chunk(index int) (schema.ChunkRequest, error) {
	total := s.TotalChunks()
	if index < 0 || index >= total {
		return schema.ChunkRequest{}, schema.ErrBadParameter.Withf("chunk index %d out of range [0, %d)", index, total)
	}
	offset, length := s.Range(index)
	return schema.ChunkRequest{
		UploadId:    s.Token,
		FileName:    s.FileName,
		ChunkIndex:  index,
		TotalChunks: total,
		Offset:      offset,
		Length:      length,
	}, nil
}

// Finalize returns the reassembly request for the session.
func (s *Session) Finalize() schema.FinalizeRequest {
	return schema.FinalizeRequest{
		UploadId: s.Token,
		FileName: s.FileName,
		FileType: s.FileType,
	}
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s *Session) String() string {
	return types.Stringify(s)
}

// Label is a short identifier for logs.
func (s *Session) Label() string {
	return fmt.Sprintf("%s[%s]", s.FileName, s.Token)
}
