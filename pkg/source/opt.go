package source

import (
	"fmt"
	"net/url"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type opt struct {
	url       *url.URL
	awsConfig *aws.Config
	endpoint  string
	region    string
	profile   string
	key       string
	secret    string
	anonymous bool
	provider  trace.TracerProvider
}

// Opt configures how a bucket source is opened
type Opt func(*opt) error

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func apply(u *url.URL, opts ...Opt) (*opt, error) {
	o := opt{url: u}
	for _, fn := range opts {
		if err := fn(&o); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithEndpoint sets the endpoint for S3-compatible services. Path-style
// addressing is always used, and HTTPS is disabled for http:// endpoints.
func WithEndpoint(endpoint string) Opt {
	return func(o *opt) error {
		u, err := url.Parse(endpoint)
		if err != nil {
			return err
		} else if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("endpoint must be http:// or https://, got %s://", u.Scheme)
		}
		o.endpoint = u.String()
		o.set("endpoint", o.endpoint)
		o.set("use_path_style", "true")
		if u.Scheme == "http" {
			o.set("disable_https", "true")
		}
		return nil
	}
}

// WithAnonymous reads public objects without credentials
func WithAnonymous() Opt {
	return func(o *opt) error {
		o.anonymous = true
		o.set("anonymous", "true")
		return nil
	}
}

// WithRegion sets the AWS region
func WithRegion(region string) Opt {
	return func(o *opt) error {
		o.region = region
		o.set("region", region)
		return nil
	}
}

// WithProfile selects a profile from the shared AWS config files
func WithProfile(profile string) Opt {
	return func(o *opt) error {
		o.profile = profile
		return nil
	}
}

// WithCredentials sets static access credentials
func WithCredentials(key, secret string) Opt {
	return func(o *opt) error {
		if key == "" || secret == "" {
			return fmt.Errorf("access key and secret are both required")
		}
		o.key, o.secret = key, secret
		return nil
	}
}

// WithTracerProvider adds AWS SDK middleware so each S3 call produces a
// span from provider
func WithTracerProvider(provider trace.TracerProvider) Opt {
	return func(o *opt) error {
		if provider == nil {
			return fmt.Errorf("tracer provider is nil")
		}
		o.provider = provider
		return nil
	}
}

// WithAWSConfig provides an AWS SDK config which replaces the URL-based
// configuration for s3:// sources
func WithAWSConfig(cfg aws.Config) Opt {
	return func(o *opt) error {
		o.awsConfig = &cfg
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// sdk reports whether the S3 client must be built from an SDK config
// rather than from URL query parameters
func (o *opt) sdk() bool {
	return o.awsConfig != nil || o.provider != nil || o.profile != "" || o.key != ""
}

func (o *opt) set(key, value string) {
	if o.url == nil {
		return
	}
	q := o.url.Query()
	if value == "" {
		q.Del(key)
	} else {
		q.Set(key, value)
	}
	o.url.RawQuery = q.Encode()
}
