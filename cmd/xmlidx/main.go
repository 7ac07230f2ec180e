// Command xmlidx builds and queries indexed XML document stores.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/xmlidx"
	"github.com/fwojciec/xmlidx/etree"
	"github.com/fwojciec/xmlidx/index"
	"github.com/fwojciec/xmlidx/pebble"
	xslog "github.com/fwojciec/xmlidx/slog"
	"github.com/fwojciec/xmlidx/sqlite"
	"github.com/fwojciec/xmlidx/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Store engines available to indexes. Set before calling Run().
	Engines []xmlidx.StoreEngine

	// Controller owning the configured indexes.
	Controller *index.Controller
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Engines: []xmlidx.StoreEngine{sqlite.NewEngine(), pebble.NewEngine()},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Controller != nil {
		return m.Controller.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("xmlidx"),
		kong.Description("Build and query indexed XML document stores."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'xmlidx --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps.Engines = m.Engines
	if cli.Verbose {
		deps.Engines = make([]xmlidx.StoreEngine, 0, len(m.Engines))
		for _, e := range m.Engines {
			deps.Engines = append(deps.Engines, xslog.NewLoggingEngine(e, deps.Logger))
		}
	}

	// Lookups need the configured indexes.
	if strings.HasPrefix(kongCtx.Command(), "get") || kongCtx.Command() == "list" {
		if cli.Config == "" {
			return fmt.Errorf("no configuration file. Use --config or set XMLIDX_CONFIG")
		}
		cfg, err := readConfig(cli.Config)
		if err != nil {
			return err
		}
		m.Controller, err = index.Open(ctx, cfg, deps.Engines, deps.Logger)
		if err != nil {
			return err
		}
		defer m.Close()

		deps.Controller = m.Controller
		deps.Resolver = xslog.NewLoggingResolver(m.Controller, deps.Logger)
	}

	return kongCtx.Run(deps)
}

// readConfig reads a configuration file, choosing the format by extension.
func readConfig(path string) (*xmlidx.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.ReadConfig(f)
	default:
		return etree.ReadConfig(f)
	}
}
