package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/lawharvest"
	"github.com/fwojciec/lawharvest/analyze"
	"github.com/fwojciec/lawharvest/config"
	"github.com/fwojciec/lawharvest/crawl"
	"github.com/fwojciec/lawharvest/elasticsearch"
	"github.com/fwojciec/lawharvest/etree"
	"github.com/fwojciec/lawharvest/fs"
	"github.com/fwojciec/lawharvest/goquery"
	lawhttp "github.com/fwojciec/lawharvest/http"
	"github.com/fwojciec/lawharvest/logging"
	"github.com/fwojciec/lawharvest/sqlite"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Files read into the environment before configuration loads.
	DotEnv []string

	// SQLite database backing the sqlite index, when selected.
	DB *sqlite.DB

	Fetcher lawharvest.Fetcher
	Logger  *zap.Logger
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DotEnv: []string{".env"},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	if m.Fetcher != nil {
		err = m.Fetcher.Close()
	}
	if m.DB != nil {
		if cerr := m.DB.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if m.Logger != nil {
		_ = m.Logger.Sync()
	}
	return err
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
		kong.Name("lawharvest"),
		kong.Description("Harvest judgments and legislation from Kenya Law."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'lawharvest --help' to see available commands")
	}

	switch args[0] {
	case "help", "--help", "-h":
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err := config.LoadDotEnv(m.DotEnv...); err != nil {
		return err
	}
	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: check --config and LAWHARVEST_* environment variables")
		return err
	}
	if cli.Insecure {
		cfg.Fetch.InsecureSkipVerify = true
	}
	if cli.Verbose {
		cfg.Log.Level = "debug"
	}

	m.Logger, err = logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := fs.EnsureDir(cfg.Output.Dir); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	m.Fetcher = lawhttp.NewFetcher(fetchOptions(cfg, m.Logger)...)

	index, err := m.openIndex(ctx, cfg)
	if err != nil {
		return err
	}

	deps.Config = cfg
	deps.Logger = m.Logger
	deps.Fetcher = m.Fetcher
	deps.Extractor = goquery.NewExtractor()
	deps.Analyzer = analyze.NewAnalyzer()
	deps.Writer = fs.NewWriter()
	deps.Index = index
	deps.CaseListing = crawl.NewLocator(m.Logger,
		etree.NewJudgmentFeed(m.Fetcher),
		goquery.NewJudgmentListing(m.Fetcher),
		goquery.NewLegacyListing(m.Fetcher),
	)
	deps.LegislationListing = crawl.NewLocator(m.Logger,
		goquery.NewLegislationTable(m.Fetcher, crawl.NewDefaultFrontier, m.Logger),
	)
	deps.Now = time.Now

	return kongCtx.Run(deps)
}

func fetchOptions(cfg *config.Config, logger *zap.Logger) []lawhttp.Option {
	f := cfg.Fetch
	return []lawhttp.Option{
		lawhttp.WithTimeout(f.Timeout),
		lawhttp.WithMaxTimeout(f.MaxTimeout),
		lawhttp.WithMaxRetries(f.MaxRetries),
		lawhttp.WithBackoff(lawhttp.DefaultBackoffBase, f.MaxBackoff),
		lawhttp.WithDelay(f.RequestDelay, f.Jitter),
		lawhttp.WithInsecureSkipVerify(f.InsecureSkipVerify),
		lawhttp.WithLimiter(crawl.NewDomainLimiter(f.RateLimit)),
		lawhttp.WithPoolSize(cfg.Crawl.Concurrency),
		lawhttp.WithLogger(logger),
	}
}

// openIndex connects the configured backend. An unreachable Elasticsearch
// cluster downgrades to running without an index; a broken SQLite file does not.
func (m *Main) openIndex(ctx context.Context, cfg *config.Config) (lawharvest.RecordIndex, error) {
	switch cfg.Index.Backend {
	case config.BackendSQLite:
		m.DB = sqlite.NewDB(cfg.Index.SQLitePath)
		if err := m.DB.Open(); err != nil {
			return nil, fmt.Errorf("failed to open index at %q: %w", cfg.Index.SQLitePath, err)
		}
		idx := sqlite.NewIndex(m.DB)
		if err := idx.EnsureIndex(ctx); err != nil {
			return nil, err
		}
		return idx, nil

	case config.BackendElasticsearch:
		es := cfg.Elasticsearch
		idx, err := elasticsearch.Open(ctx, elasticsearch.Config{
			Host:     es.Host,
			Port:     es.Port,
			Username: es.Username,
			Password: es.Password,
			Index:    es.Index,
		}, elasticsearch.WithLogger(m.Logger))
		if err != nil {
			m.Logger.Warn("continuing without index", zap.Error(err))
			return nil, nil
		}
		if err := idx.EnsureIndex(ctx); err != nil {
			m.Logger.Warn("continuing without index", zap.Error(err))
			return nil, nil
		}
		return idx, nil
	}
	return nil, nil
}
