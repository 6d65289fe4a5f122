package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	isatty "github.com/mattn/go-isatty"
	zerolog "github.com/rs/zerolog"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	Endpoint string        `env:"UPLOAD_ENDPOINT" default:"http://localhost:3000/" help:"Backend endpoint"`
	Token    string        `env:"UPLOAD_TOKEN" help:"Bearer token for authenticated requests"`
	Timeout  time.Duration `env:"UPLOAD_TIMEOUT" help:"Timeout for JSON requests"`
	Debug    bool          `help:"Enable debug output"`
	Trace    bool          `help:"Dump HTTP requests and responses"`

	vars   kong.Vars `kong:"-"` // Variables for kong
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewApp(app Globals, vars kong.Vars) (*Globals, error) {
	// Set the vars
	app.vars = vars

	// Log to stderr, human-readable on a terminal
	level := zerolog.InfoLevel
	if app.Debug || app.Trace {
		level = zerolog.DebugLevel
	}
	if isTerminal(os.Stderr) {
		app.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		app.log = zerolog.New(os.Stderr)
	}
	app.log = app.log.Level(level).With().Timestamp().Logger()

	// Create the context
	// This context is cancelled when the process receives a SIGINT or SIGTERM
	app.ctx, app.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Return the app
	return &app, nil
}

func (app *Globals) Close() error {
	app.cancel()
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
