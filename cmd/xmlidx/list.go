package main

import (
	"fmt"

	"github.com/fwojciec/xmlidx"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	indexes := deps.Controller.All()
	if len(indexes) == 0 {
		fmt.Fprintln(deps.Stdout, "No indexes configured.")
		return nil
	}

	for _, idx := range indexes {
		s, err := idx.Stats(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", xmlidx.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s  %d elements in %d files", s.Name, s.Elements, s.Files)
		if s.Store != "" {
			kind := "transient"
			if s.System {
				kind = "system"
			}
			fmt.Fprintf(deps.Stdout, "  %s store %s (%d records)", kind, s.Store, s.Stored)
		}
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}
