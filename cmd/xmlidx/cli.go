package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/xmlidx"
	"github.com/fwojciec/xmlidx/index"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Engines    []xmlidx.StoreEngine
	Resolver   xmlidx.Resolver
	Controller *index.Controller
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" type:"path" env:"XMLIDX_CONFIG" help:"Index configuration file (.xml, .yaml or .yml)"`
	Verbose bool   `short:"v" help:"Log debug diagnostics"`

	Build BuildCmd `cmd:"" help:"Build a system store from a data directory"`
	Get   GetCmd   `cmd:"" help:"Print the fragment stored under a key"`
	List  ListCmd  `cmd:"" help:"List configured indexes and their sizes"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Out     string `arg:"" type:"path" help:"Store directory to create"`
	Base    string `required:"" help:"Data directory"`
	Files   string `default:"*.xml" help:"File name pattern"`
	Recurse bool   `short:"r" help:"Descend into subdirectories"`
	Key     string `default:"@id" help:"Key rule, relative to each record"`
	Value   string `required:"" help:"Record rule"`
	Engine  string `default:"sqlite" enum:"sqlite,pebble" help:"Store engine"`
	Jobs    int    `short:"j" default:"1" help:"Files parsed concurrently"`
}

// GetCmd is the "get" subcommand.
type GetCmd struct {
	Index string `arg:"" help:"Index name"`
	Key   string `arg:"" help:"Lookup key"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}
