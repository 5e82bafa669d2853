package main

import (
	"fmt"

	"github.com/fwojciec/lawharvest"
	"github.com/fwojciec/lawharvest/fs"
)

// Run executes the cleanup command.
func (c *CleanupCmd) Run(deps *Dependencies) error {
	if deps.Index != nil {
		if err := deps.Index.DeleteIndex(deps.Ctx); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", lawharvest.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, "Deleted index")
	}

	removed, err := fs.Cleanup(deps.Config.Output.Dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawharvest.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Removed %d files from %s\n", len(removed), deps.Config.Output.Dir)
	return nil
}
