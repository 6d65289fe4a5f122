package schema

import "time"

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

const (
	SchemaName = "upload"

	// Instrumentation scope for spans and metrics
	MeterName  = "github.com/mutablelogic/go-upload"
	TracerName = MeterName

	// Endpoint paths, relative to the client base URL
	UploadMultiplePath = "/api/v1/upload/multiple"
	UploadChunkPath    = "/api/v1/upload/chunk"
	UploadFinalizePath = "/api/v1/upload/finalize"
	CountsPath         = "/api/v1/counts"

	// Multipart form fields
	FieldFiles       = "files"
	FieldChunk       = "chunk"
	FieldChunkIndex  = "chunkIndex"
	FieldTotalChunks = "totalChunks"
	FieldUploadId    = "uploadId"
	FieldFileName    = "fileName"

	// HTTP headers
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

const (
	// DefaultChunkSize is the slice size used by chunked uploads (2 MiB).
	DefaultChunkSize int64 = 2 * 1024 * 1024

	// LargeFileThreshold is the size above which a file is considered large
	// by the strategy dispatcher (10 MiB).
	LargeFileThreshold int64 = 10 * 1024 * 1024

	// SingleShotTimeout is the ceiling for a whole-file upload request.
	SingleShotTimeout = 300 * time.Second

	// ChunkTimeout is the ceiling for each chunk and the finalize request.
	ChunkTimeout = 60 * time.Second

	// DefaultPollInterval is the badge-count refresh interval.
	DefaultPollInterval = 30 * time.Second
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// IsLarge reports whether a file of the given size exceeds LargeFileThreshold.
func IsLarge(size int64) bool {
	return size > LargeFileThreshold
}
