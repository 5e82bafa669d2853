package main

import (
	"fmt"

	"github.com/fwojciec/lawharvest"
	"github.com/fwojciec/lawharvest/crawl"
)

// Run executes the legislation command.
func (c *LegislationCmd) Run(deps *Dependencies) error {
	if c.MinActs <= 0 {
		fmt.Fprintf(deps.Stderr, "error: --min-acts must be positive\n")
		return lawharvest.Errorf(lawharvest.EINVALID, "--min-acts must be positive")
	}

	s := &crawl.LegislationScraper{
		Listing:  deps.LegislationListing,
		Writer:   deps.Writer,
		Index:    deps.Index,
		Logger:   deps.Logger,
		Progress: progressPrinter(deps),
		Now:      deps.Now,
	}

	fmt.Fprintf(deps.Stdout, "Harvesting at least %d acts\n", c.MinActs)
	records, err := s.Scrape(deps.Ctx, c.MinActs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawharvest.ErrorMessage(err))
		return err
	}

	path := c.Output
	if path == "" {
		path = crawl.OutputPath(deps.Config.Output.Dir, "legislation", ".json", deps.Now())
	}
	if err := s.Save(deps.Ctx, records, path); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawharvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d acts to %s\n", len(records), path)
	return nil
}
