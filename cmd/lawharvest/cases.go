package main

import (
	"fmt"

	"github.com/fwojciec/lawharvest"
	"github.com/fwojciec/lawharvest/crawl"
)

// Run executes the cases command.
func (c *CasesCmd) Run(deps *Dependencies) error {
	if c.NumCases <= 0 {
		fmt.Fprintf(deps.Stderr, "error: --num-cases must be positive\n")
		return lawharvest.Errorf(lawharvest.EINVALID, "--num-cases must be positive")
	}

	s := &crawl.CaseScraper{
		Listing:     deps.CaseListing,
		Fetcher:     deps.Fetcher,
		Extractor:   deps.Extractor,
		Writer:      deps.Writer,
		Index:       deps.Index,
		Concurrency: deps.Config.Crawl.Concurrency,
		Logger:      deps.Logger,
		Progress:    progressPrinter(deps),
		Now:         deps.Now,
	}

	fmt.Fprintf(deps.Stdout, "Harvesting %d judgments\n", c.NumCases)
	records, err := s.Scrape(deps.Ctx, c.NumCases)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawharvest.ErrorMessage(err))
		return err
	}

	path := c.Output
	if path == "" {
		path = crawl.OutputPath(deps.Config.Output.Dir, "cases", ".csv", deps.Now())
	}
	if err := s.Save(deps.Ctx, records, path); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawharvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d cases to %s\n", len(records), path)
	return nil
}

// progressPrinter reports run progress the same way for every command.
func progressPrinter(deps *Dependencies) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d URLs\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, 80), event.Error)
		case crawl.ProgressFinished:
			fmt.Fprintf(deps.Stdout, "  Processed %d/%d\n", event.Completed, event.Total)
		}
	}
}
