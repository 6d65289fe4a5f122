package badge

import (
	"time"

	// Packages
	upload "github.com/mutablelogic/go-upload"
	schema "github.com/mutablelogic/go-upload/pkg/schema"
	zerolog "github.com/rs/zerolog"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type opt struct {
	interval time.Duration
	log      zerolog.Logger
	reqOpts  []upload.Opt
}

// Opt configures a Poller
type Opt func(*opt) error

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithInterval sets the refresh interval
func WithInterval(interval time.Duration) Opt {
	return func(o *opt) error {
		if interval <= 0 {
			return schema.ErrBadParameter.Withf("invalid interval: %v", interval)
		}
		o.interval = interval
		return nil
	}
}

// WithLogger sets the logger for refresh failures
func WithLogger(log zerolog.Logger) Opt {
	return func(o *opt) error {
		o.log = log
		return nil
	}
}

// WithToken sets the bearer token sent with each refresh
func WithToken(token string) Opt {
	return func(o *opt) error {
		o.reqOpts = append(o.reqOpts, upload.WithToken(token))
		return nil
	}
}
