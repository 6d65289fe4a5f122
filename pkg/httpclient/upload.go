package httpclient

import (
	"context"
	"io"

	// Packages
	client "github.com/mutablelogic/go-client"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	upload "github.com/mutablelogic/go-upload"
	filetype "github.com/mutablelogic/go-upload/pkg/filetype"
	progress "github.com/mutablelogic/go-upload/pkg/progress"
	schema "github.com/mutablelogic/go-upload/pkg/schema"
	session "github.com/mutablelogic/go-upload/pkg/session"
	types "github.com/mutablelogic/go-server/pkg/types"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// CONSTANTS

const (
	transportSingle  = "single"
	transportChunked = "chunked"

	// sniffLen is the number of leading bytes used for content detection
	sniffLen = 3072
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// singleForm is the body of a single-shot upload
type singleForm struct {
	Files types.File `json:"files"`
}

// chunkForm is the body of one chunk request. The encoder writes fields in
// declaration order, so the chunk data is always the last part.
type chunkForm struct {
	ChunkIndex  int        `json:"chunkIndex"`
	TotalChunks int        `json:"totalChunks"`
	UploadId    string     `json:"uploadId"`
	FileName    string     `json:"fileName"`
	Chunk       types.File `json:"chunk"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// UploadFile uploads src as one multipart request. Progress is reported as
// bytes are sent, when the size is known.
func (c *Client) UploadFile(ctx context.Context, src upload.Source, opts ...upload.Opt) (*schema.UploadResult, error) {
	o, err := upload.ApplyOpts(opts...)
	if err != nil {
		return nil, err
	}
	return c.uploadFile(ctx, src, o.Token(), o.Observers())
}

// UploadChunked uploads src as a sequence of chunk requests followed by a
// finalize request. Chunks are sent strictly in order; the first failure
// ends the upload.
func (c *Client) UploadChunked(ctx context.Context, src upload.Source, opts ...upload.Opt) (*schema.UploadResult, error) {
	o, err := upload.ApplyOpts(opts...)
	if err != nil {
		return nil, err
	}
	return c.uploadChunked(ctx, src, o.Token(), o.ChunkSize(), o.Observers())
}

// Upload chooses the transport for src. Large files are only sent in chunks
// when upload.WithChunkedLargeFiles is set; otherwise every file is sent as
// one request.
func (c *Client) Upload(ctx context.Context, src upload.Source, opts ...upload.Opt) (*schema.UploadResult, error) {
	o, err := upload.ApplyOpts(opts...)
	if err != nil {
		return nil, err
	}
	return c.upload(ctx, src, o, o.Observers())
}

// UploadFiles uploads srcs one at a time, in order, and returns the results
// in the same order. Progress is aggregated across the batch and ends with
// exactly 100. The first failure aborts the batch and no results are
// returned; the error carries the index of the failing file.
func (c *Client) UploadFiles(ctx context.Context, srcs []upload.Source, opts ...upload.Opt) (_ []schema.UploadResult, err error) {
	o, err := upload.ApplyOpts(opts...)
	if err != nil {
		return nil, err
	}

	// OTEL span
	ctx, endFunc := otel.StartSpan(c.tracer, ctx, spanName("UploadFiles"))
	defer func() { endFunc(err) }()
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("upload.count", len(srcs)))

	batch := progress.NewBatch(o.Observers(), len(srcs))
	results := make([]schema.UploadResult, 0, len(srcs))
	for i, src := range srcs {
		result, err := c.upload(ctx, src, o, batch.File(i))
		if err != nil {
			c.log.Debug().Int("index", i).Str("file", src.Name()).Err(err).Msg("batch aborted")
			return nil, schema.FileFailed(i, err)
		}
		results = append(results, *result)
	}
	batch.Done(ctx)

	// Return success
	return results, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

type uploadOpts interface {
	Token() string
	ChunkSize() int64
	ChunkedLargeFiles() bool
}

func (c *Client) upload(ctx context.Context, src upload.Source, o uploadOpts, observer progress.Observer) (*schema.UploadResult, error) {
	if o.ChunkedLargeFiles() && schema.IsLarge(src.Size()) {
		return c.uploadChunked(ctx, src, o.Token(), o.ChunkSize(), observer)
	}
	return c.uploadFile(ctx, src, o.Token(), observer)
}

func (c *Client) uploadFile(ctx context.Context, src upload.Source, token string, observer progress.Observer) (_ *schema.UploadResult, err error) {
	name, size := src.Name(), src.Size()
	mediaType := mediaTypeOf(src)

	// OTEL span
	ctx, endFunc := otel.StartSpan(c.tracer, ctx, spanName("UploadFile"))
	defer func() { endFunc(err) }()
	trace.SpanFromContext(ctx).SetAttributes(fileAttrs(name, mediaType, size)...)

	// Deadline for the whole request
	ctx, cancel := context.WithTimeoutCause(ctx, c.singleTimeout, schema.ErrTimeout)

	// Report progress as the body is read by the transport
	var body io.Reader = io.NewSectionReader(src, 0, size)
	if size > 0 {
		body = progress.NewReader(body, size, func(written, total int64) {
			observer.Progress(ctx, schema.Progress{
				Count:   1,
				Name:    name,
				Percent: progress.Percent(written, total),
			})
		})
	}
	payload, err := client.NewStreamingMultipartRequest(&singleForm{
		Files: types.File{
			Path:        name,
			Body:        io.NopCloser(body),
			ContentType: mediaType,
		},
	}, types.ContentTypeJSON)
	if err != nil {
		cancel()
		return nil, schema.ErrBadParameter.Wrap(err)
	}
	defer closePayload(payload)
	defer cancel()

	c.log.Debug().Str("file", name).Str("type", mediaType).Int64("size", size).Msg("upload")
	data, err := c.send(ctx, schema.UploadMultiplePath, payload, token)
	if err == nil {
		var result *schema.UploadResult
		if result, err = schema.ParseResult(data); err == nil {
			c.metrics.file(ctx, transportSingle, size, nil)
			return c.resolved(name, result), nil
		}
	}
	c.metrics.file(ctx, transportSingle, size, err)
	return nil, err
}

func (c *Client) uploadChunked(ctx context.Context, src upload.Source, token string, chunkSize int64, observer progress.Observer) (_ *schema.UploadResult, err error) {
	name, size := src.Name(), src.Size()
	mediaType := mediaTypeOf(src)

	// OTEL span
	ctx, endFunc := otel.StartSpan(c.tracer, ctx, spanName("UploadChunked"))
	defer func() { endFunc(err) }()
	trace.SpanFromContext(ctx).SetAttributes(fileAttrs(name, mediaType, size)...)
	defer func() { c.metrics.file(ctx, transportChunked, size, err) }()

	// One session token correlates every chunk with the finalize request
	sess, err := session.New(name, mediaType, size, chunkSize)
	if err != nil {
		return nil, err
	}
	total := sess.TotalChunks()
	c.log.Debug().Str("session", sess.Label()).Int64("size", size).Int("chunks", total).Msg("chunked upload")

	for i := 0; i < total; i++ {
		chunk, err := sess.Chunk(i)
		if err != nil {
			return nil, err
		}
		err = c.uploadChunk(ctx, src, chunk, token)
		c.metrics.chunk(ctx, err)
		if err != nil {
			c.log.Debug().Str("session", sess.Label()).Int("chunk", i).Err(err).Msg("chunk failed")
			return nil, schema.ChunkUploadFailed(i, err)
		}
		observer.Progress(ctx, schema.Progress{
			Count:   1,
			Name:    name,
			Percent: progress.Percent(int64(i+1), int64(total)),
		})
	}

	// Trigger reassembly
	result, err := c.finalize(ctx, sess.Finalize(), token)
	if err != nil {
		return nil, schema.FinalizeFailed(err)
	}
	return c.resolved(name, result), nil
}

func (c *Client) uploadChunk(ctx context.Context, src upload.Source, chunk schema.ChunkRequest, token string) (err error) {
	// OTEL span
	ctx, endFunc := otel.StartSpan(c.tracer, ctx, spanName("UploadChunk"))
	defer func() { endFunc(err) }()
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("upload.chunk", chunk.ChunkIndex))

	ctx, cancel := context.WithTimeoutCause(ctx, c.chunkTimeout, schema.ErrTimeout)
	payload, err := client.NewStreamingMultipartRequest(&chunkForm{
		ChunkIndex:  chunk.ChunkIndex,
		TotalChunks: chunk.TotalChunks,
		UploadId:    chunk.UploadId,
		FileName:    chunk.FileName,
		Chunk: types.File{
			Path:        chunk.FileName,
			Body:        io.NopCloser(io.NewSectionReader(src, chunk.Offset, chunk.Length)),
			ContentType: types.ContentTypeBinary,
		},
	}, types.ContentTypeJSON)
	if err != nil {
		cancel()
		return schema.ErrBadParameter.Wrap(err)
	}
	defer closePayload(payload)
	defer cancel()

	// The chunk response body is not used
	_, err = c.send(ctx, schema.UploadChunkPath, payload, token)
	return err
}

func (c *Client) finalize(ctx context.Context, req schema.FinalizeRequest, token string) (_ *schema.UploadResult, err error) {
	// OTEL span
	ctx, endFunc := otel.StartSpan(c.tracer, ctx, spanName("Finalize"))
	defer func() { endFunc(err) }()

	ctx, cancel := context.WithTimeoutCause(ctx, c.chunkTimeout, schema.ErrTimeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return nil, classify(ctx, err)
	}

	payload, err := client.NewJSONRequest(req)
	if err != nil {
		return nil, err
	}
	var response resultUnmarshaler
	if err := c.DoWithContext(ctx, payload, &response, append(reqOpts(schema.UploadFinalizePath, token), client.OptNoTimeout())...); err != nil {
		return nil, classifyResponse(ctx, err)
	} else if response.result == nil {
		return nil, schema.ErrResponseParse.With("empty finalize response")
	}
	return response.result, nil
}

// resolved logs a warning when the backend did not return a path
func (c *Client) resolved(name string, result *schema.UploadResult) *schema.UploadResult {
	if !result.Resolved() {
		c.log.Warn().Str("file", name).Msg("upload response has no file path")
	}
	return result
}

func mediaTypeOf(src upload.Source) string {
	return filetype.Resolve(src.Type(), src.Name(), func() io.Reader {
		return io.NewSectionReader(src, 0, min(src.Size(), sniffLen))
	})
}

func fileAttrs(name, mediaType string, size int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("upload.file", name),
		attribute.String("upload.type", mediaType),
		attribute.Int64("upload.size", size),
	}
}

func spanName(op string) string {
	return schema.SchemaName + "." + op
}
