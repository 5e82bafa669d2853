package main

import (
	"fmt"

	"github.com/fwojciec/lawharvest"
	"github.com/fwojciec/lawharvest/crawl"
)

// Run executes the analysis command.
func (c *AnalysisCmd) Run(deps *Dependencies) error {
	if c.NumCases <= 0 {
		fmt.Fprintf(deps.Stderr, "error: --num-cases must be positive\n")
		return lawharvest.Errorf(lawharvest.EINVALID, "--num-cases must be positive")
	}

	s := &crawl.AnalysisScraper{
		Listing:     deps.CaseListing,
		URLs:        c.URLs,
		Fetcher:     deps.Fetcher,
		Extractor:   deps.Extractor,
		Analyzer:    deps.Analyzer,
		Writer:      deps.Writer,
		Index:       deps.Index,
		Concurrency: deps.Config.Crawl.Concurrency,
		Logger:      deps.Logger,
		Progress:    progressPrinter(deps),
		Now:         deps.Now,
	}

	fmt.Fprintf(deps.Stdout, "Analyzing up to %d judgments\n", c.NumCases)
	records, err := s.Scrape(deps.Ctx, c.NumCases)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawharvest.ErrorMessage(err))
		return err
	}

	path := c.Output
	if path == "" {
		path = crawl.OutputPath(deps.Config.Output.Dir, "case_analysis", ".json", deps.Now())
	}
	if err := s.Save(deps.Ctx, records, path); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawharvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d analyses to %s\n", len(records), path)
	fmt.Fprintf(deps.Stdout, "Summary in %s\n", crawl.SummaryPath(path))
	return nil
}
