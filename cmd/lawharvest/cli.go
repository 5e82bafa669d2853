package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/lawharvest"
	"github.com/fwojciec/lawharvest/config"
	"go.uber.org/zap"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Config *config.Config
	Logger *zap.Logger

	Fetcher            lawharvest.Fetcher
	Extractor          lawharvest.CaseExtractor
	Analyzer           lawharvest.TextAnalyzer
	Writer             lawharvest.RecordWriter
	Index              lawharvest.RecordIndex // nil when indexing is off
	CaseListing        lawharvest.ListingStrategy
	LegislationListing lawharvest.ListingStrategy
	Now                func() time.Time
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string `short:"c" type:"path" help:"Config file (yaml, toml or json)"`
	Verbose  bool   `short:"v" help:"Log at debug level"`
	Insecure bool   `help:"Skip TLS certificate verification"`

	Cases       CasesCmd       `cmd:"" help:"Harvest judgment metadata to CSV"`
	Legislation LegislationCmd `cmd:"" help:"Harvest acts from the legislation tables to JSON"`
	Analysis    AnalysisCmd    `cmd:"" help:"Analyze full judgment texts to JSON"`
	All         AllCmd         `cmd:"" help:"Run cases, legislation and analysis in order"`
	Cleanup     CleanupCmd     `cmd:"" help:"Delete the index and remove output files"`
}

// CasesCmd is the "cases" subcommand.
type CasesCmd struct {
	NumCases int    `short:"n" default:"10" help:"Number of judgments to harvest"`
	Output   string `short:"o" type:"path" help:"CSV output path (default: timestamped file in the output directory)"`
}

// LegislationCmd is the "legislation" subcommand.
type LegislationCmd struct {
	MinActs int    `short:"m" default:"50" help:"Minimum number of acts to collect"`
	Output  string `short:"o" type:"path" help:"JSON output path (default: timestamped file in the output directory)"`
}

// AnalysisCmd is the "analysis" subcommand.
type AnalysisCmd struct {
	NumCases int      `short:"n" default:"20" help:"Number of judgments to analyze"`
	URLs     []string `name:"urls" help:"Judgment URLs to analyze instead of discovering them (repeatable)"`
	Output   string   `short:"o" type:"path" help:"JSON output path (default: timestamped file in the output directory)"`
}

// AllCmd is the "all" subcommand.
type AllCmd struct{}

// CleanupCmd is the "cleanup" subcommand.
type CleanupCmd struct{}
