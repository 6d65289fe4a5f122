package main

import (
	"fmt"

	// Packages
	version "github.com/mutablelogic/go-upload/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type VersionCommands struct {
	Version VersionCommand `cmd:"" group:"MISC" help:"Print version information"`
}

type VersionCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *VersionCommand) Run(ctx *Globals) error {
	fmt.Println(string(version.JSON(execName())))
	return nil
}
