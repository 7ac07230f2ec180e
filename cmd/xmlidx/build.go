package main

import (
	"errors"
	"fmt"

	"github.com/fwojciec/xmlidx"
	"github.com/fwojciec/xmlidx/durable"
	"github.com/fwojciec/xmlidx/etree"
	"github.com/fwojciec/xmlidx/fs"
	"github.com/fwojciec/xmlidx/index"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	rules, err := etree.CompileRules(c.Key, c.Value)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", xmlidx.ErrorMessage(err))
		return err
	}
	engine := index.FindEngine(deps.Engines, c.Engine)
	if engine == nil {
		return xmlidx.Errorf(xmlidx.EINVALID, "unknown store engine %q", c.Engine)
	}

	dir := fs.NewStoreDir(c.Out)
	if err := dir.Begin(); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir.TempDir(), err)
	}

	doc, err := durable.Open(deps.Ctx, dir.TempDir(), durable.Options{
		Rules:  rules,
		Engine: engine,
		System: true,
		Create: true,
		Jobs:   c.Jobs,
		Logger: deps.Logger,
	})
	if err != nil {
		_ = dir.Abort()
		return err
	}

	files, err := doc.AddDocuments(deps.Ctx, xmlidx.ExpandEnv(c.Base), c.Files, c.Recurse)
	elements, lerr := doc.Len(deps.Ctx)
	if err := errors.Join(err, lerr, doc.Close()); err != nil {
		_ = dir.Abort()
		return err
	}
	if err := dir.Commit(); err != nil {
		_ = dir.Abort()
		return fmt.Errorf("failed to publish %s: %w", dir.FinalDir(), err)
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d elements in %d files into %s\n", elements, files, dir.FinalDir())
	return nil
}
