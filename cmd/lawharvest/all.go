package main

import (
	"errors"
	"fmt"
)

// Run executes the all command. A failed step does not stop the next one
// unless the run was interrupted.
func (c *AllCmd) Run(deps *Dependencies) error {
	steps := []struct {
		name string
		run  func(*Dependencies) error
	}{
		{"cases", (&CasesCmd{NumCases: 10}).Run},
		{"legislation", (&LegislationCmd{MinActs: 50}).Run},
		{"analysis", (&AnalysisCmd{NumCases: 20}).Run},
	}

	var errs []error
	for _, step := range steps {
		if err := deps.Ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		fmt.Fprintf(deps.Stdout, "== %s\n", step.name)
		if err := step.run(deps); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}

	if len(errs) > 0 {
		fmt.Fprintf(deps.Stderr, "%d of %d steps failed\n", len(errs), len(steps))
		return errors.Join(errs...)
	}
	fmt.Fprintln(deps.Stdout, "All steps completed")
	return nil
}
