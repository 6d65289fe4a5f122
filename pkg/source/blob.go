package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	config "github.com/aws/aws-sdk-go-v2/config"
	credentials "github.com/aws/aws-sdk-go-v2/credentials"
	s3 "github.com/aws/aws-sdk-go-v2/service/s3"
	otelaws "go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	blob "gocloud.dev/blob"
	s3blob "gocloud.dev/blob/s3blob"
	gcerrors "gocloud.dev/gcerrors"

	// Drivers
	_ "gocloud.dev/blob/fileblob" // file:// URLs
	_ "gocloud.dev/blob/memblob"  // mem:// URLs
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Blob is an object in a gocloud bucket. Reads are served with range
// requests, so chunks are fetched independently.
type Blob struct {
	ctx       context.Context
	bucket    *blob.Bucket
	key       string
	name      string
	mediaType string
	size      int64
	owned     bool
}

var _ Source = (*Blob)(nil)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewBlob returns a source for key in an open bucket. The bucket is not
// closed with the source. ctx bounds every later read.
func NewBlob(ctx context.Context, bucket *blob.Bucket, key string) (*Blob, error) {
	attrs, err := bucket.Attributes(ctx, key)
	if err != nil {
		return nil, blobErr(err, key)
	}
	self := &Blob{
		ctx:    ctx,
		bucket: bucket,
		key:    key,
		name:   path.Base(key),
		size:   attrs.Size,
	}
	self.mediaType = resolveType(attrs.ContentType, self.name, self, self.size)
	return self, nil
}

// OpenBlob opens the bucket named by u and returns a source for the object
// at the URL path. For file:// URLs the parent directory is the bucket.
func OpenBlob(ctx context.Context, u *url.URL, opts ...Opt) (*Blob, error) {
	o, err := apply(u, opts...)
	if err != nil {
		return nil, err
	}

	var bucket *blob.Bucket
	var key string
	switch u.Scheme {
	case "file":
		dir, file := path.Split(path.Clean(u.Path))
		key = file
		bucket, err = blob.OpenBucket(ctx, (&url.URL{Scheme: "file", Path: dir}).String())
	case "s3":
		key = strings.TrimPrefix(u.Path, "/")
		if o.sdk() {
			bucket, err = o.openS3(ctx, u.Host)
		} else {
			bucket, err = blob.OpenBucket(ctx, bucketURL(u))
		}
	default:
		key = strings.TrimPrefix(u.Path, "/")
		bucket, err = blob.OpenBucket(ctx, bucketURL(u))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	} else if key == "" {
		return nil, errors.Join(fmt.Errorf("missing object key in %q", u.Redacted()), bucket.Close())
	}

	self, err := NewBlob(ctx, bucket, key)
	if err != nil {
		return nil, errors.Join(err, bucket.Close())
	}
	self.owned = true
	return self, nil
}

// Close releases the bucket when it was opened by OpenBlob
func (b *Blob) Close() error {
	if !b.owned || b.bucket == nil {
		return nil
	}
	err := b.bucket.Close()
	b.bucket = nil
	return err
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (b *Blob) Name() string {
	return b.name
}

func (b *Blob) Type() string {
	return b.mediaType
}

func (b *Blob) Size() int64 {
	return b.size
}

// ReadAt reads len(p) bytes at off with a single range request
func (b *Blob) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fs.ErrInvalid
	} else if off >= b.size {
		return 0, io.EOF
	} else if len(p) == 0 {
		return 0, nil
	}

	length := min(int64(len(p)), b.size-off)
	r, err := b.bucket.NewRangeReader(b.ctx, b.key, off, length, nil)
	if err != nil {
		return 0, blobErr(err, b.key)
	}
	defer r.Close()

	n, err := io.ReadFull(r, p[:length])
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	} else if err == nil && int64(len(p)) > length {
		err = io.EOF
	}
	return n, err
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (o *opt) openS3(ctx context.Context, name string) (*blob.Bucket, error) {
	var cfg aws.Config
	if o.awsConfig != nil {
		cfg = *o.awsConfig
	} else {
		var loadOpts []func(*config.LoadOptions) error
		if o.region != "" {
			loadOpts = append(loadOpts, config.WithRegion(o.region))
		}
		if o.profile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
		}
		if o.key != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.key, o.secret, "")))
		}
		if loaded, err := config.LoadDefaultConfig(ctx, loadOpts...); err != nil {
			return nil, err
		} else {
			cfg = loaded
		}
	}
	if o.anonymous {
		cfg.Credentials = aws.AnonymousCredentials{}
	}
	if o.provider != nil {
		otelaws.AppendMiddlewares(&cfg.APIOptions, otelaws.WithTracerProvider(o.provider))
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.endpoint != "" {
			so.BaseEndpoint = aws.String(o.endpoint)
			so.UsePathStyle = true
		}
	})
	return s3blob.OpenBucket(ctx, client, name, nil)
}

// bucketURL strips the object key from u, leaving the bucket URL
func bucketURL(u *url.URL) string {
	b := *u
	b.Path = ""
	b.RawPath = ""
	return b.String()
}

func blobErr(err error, key string) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return &fs.PathError{Op: "open", Path: key, Err: fs.ErrNotExist}
	}
	return err
}
