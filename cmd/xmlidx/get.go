package main

import (
	"fmt"

	"github.com/fwojciec/xmlidx"
)

// Run executes the get command.
func (c *GetCmd) Run(deps *Dependencies) error {
	f, err := deps.Resolver.Resolve(deps.Ctx, c.Index, c.Key)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", xmlidx.ErrorMessage(err))
		return err
	}
	if f == nil {
		return xmlidx.Errorf(xmlidx.ENOTFOUND, "key %q not found in index %q", c.Key, c.Index)
	}

	fmt.Fprintln(deps.Stdout, f.String())
	return nil
}
