package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	// Packages
	upload "github.com/mutablelogic/go-upload"
	filetype "github.com/mutablelogic/go-upload/pkg/filetype"
	progress "github.com/mutablelogic/go-upload/pkg/progress"
	schema "github.com/mutablelogic/go-upload/pkg/schema"
	source "github.com/mutablelogic/go-upload/pkg/source"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type UploadCommands struct {
	Upload UploadCommand `cmd:"" group:"UPLOAD" help:"Upload files, in order"`
}

type UploadCommand struct {
	Paths     []string `arg:"" name:"path" help:"Local files, or mem://, file:// and s3:// object URLs"`
	Chunked   bool     `name:"chunked" short:"c" help:"Upload files larger than 10 MiB in chunks"`
	ChunkSize int64    `name:"chunk-size" default:"${CHUNK_SIZE}" help:"Chunk size in bytes"`
	S3        S3Flags  `embed:"" prefix:"s3-"`
}

type S3Flags struct {
	Endpoint  string `name:"endpoint" env:"S3_ENDPOINT" help:"Endpoint for S3-compatible services"`
	Region    string `name:"region" env:"AWS_REGION" help:"AWS region"`
	Profile   string `name:"profile" env:"AWS_PROFILE" help:"AWS shared config profile"`
	Anonymous bool   `name:"anonymous" help:"Read public objects without credentials"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *UploadCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}

	// Open every source before the first byte is sent
	srcs := make([]upload.Source, 0, len(cmd.Paths))
	defer func() {
		for _, src := range srcs {
			src.(source.Source).Close()
		}
	}()
	for _, path := range cmd.Paths {
		src, err := source.Open(ctx.ctx, path, cmd.S3.opts()...)
		if err != nil {
			return err
		}
		srcs = append(srcs, src)
		ctx.log.Debug().Str("name", src.Name()).Str("type", src.Type()).Str("kind", kind(src)).Int64("size", src.Size()).Msg("source")
	}

	// Render progress from a backpressured channel
	ch := progress.NewChannel(0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		renderProgress(ch, isTerminal(os.Stderr))
	}()

	opts := append(ctx.UploadOpts(), upload.WithObserver(ch), upload.WithChunkSize(cmd.ChunkSize))
	if cmd.Chunked {
		opts = append(opts, upload.WithChunkedLargeFiles())
	}
	results, err := c.UploadFiles(ctx.ctx, srcs, opts...)
	ch.Close()
	<-done
	if err != nil {
		return describe(err)
	}

	for i, result := range results {
		if !result.Resolved() {
			ctx.log.Warn().Str("file", srcs[i].Name()).Msg("no file path in response")
		}
	}
	return prettyJSON(results)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (f S3Flags) opts() []source.Opt {
	var opts []source.Opt
	if f.Endpoint != "" {
		opts = append(opts, source.WithEndpoint(f.Endpoint))
	}
	if f.Region != "" {
		opts = append(opts, source.WithRegion(f.Region))
	}
	if f.Profile != "" {
		opts = append(opts, source.WithProfile(f.Profile))
	}
	if f.Anonymous {
		opts = append(opts, source.WithAnonymous())
	}
	return opts
}

func renderProgress(ch *progress.Channel, tty bool) {
	last := -1
	for p := range ch.C() {
		if tty {
			fmt.Fprintf(os.Stderr, "\r\x1b[K  [%d/%d]  %3d%%  \x1b[1m%s\x1b[0m", p.Index+1, p.Count, p.Percent, p.Name)
		} else if p.Percent/10 != last/10 {
			fmt.Fprintf(os.Stderr, "  [%d/%d]  %3d%%  %s\n", p.Index+1, p.Count, p.Percent, p.Name)
		}
		last = p.Percent
	}
	if tty && last >= 0 {
		fmt.Fprintln(os.Stderr)
	}
}

// describe adds the failing file and chunk to an upload error
func describe(err error) error {
	var uerr *schema.Error
	if !errors.As(err, &uerr) || !uerr.Batch() {
		return err
	}
	var parts []string
	parts = append(parts, fmt.Sprintf("file %d", uerr.Index+1))
	var inner *schema.Error
	if errors.As(errors.Unwrap(uerr), &inner) && errors.Is(inner, schema.ErrChunkUploadFailed) {
		parts = append(parts, fmt.Sprintf("chunk %d", inner.Index))
	}
	return fmt.Errorf("%s: %w", strings.Join(parts, ", "), errors.Unwrap(uerr))
}

func kind(src upload.Source) string {
	switch {
	case filetype.IsVideo(src.Type(), src.Name()):
		return "video"
	case filetype.IsImage(src.Type(), src.Name()):
		return "image"
	default:
		return "file"
	}
}

func prettyJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
