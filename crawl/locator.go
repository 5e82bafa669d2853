// Package crawl drives harvest runs: it locates candidate documents,
// fetches and extracts them concurrently and hands the assembled records
// to the writer and the index.
package crawl

import (
	"context"
	"strings"

	"github.com/fwojciec/lawharvest"
	"go.uber.org/zap"
)

var _ lawharvest.ListingStrategy = (*Locator)(nil)

// Locator tries its strategies in order and returns the entries of the
// first one that yields any. Results are never merged across strategies.
// A failing strategy is logged and the next one is tried.
type Locator struct {
	Strategies []lawharvest.ListingStrategy
	Logger     *zap.Logger
}

// NewLocator returns a Locator over strategies.
func NewLocator(logger *zap.Logger, strategies ...lawharvest.ListingStrategy) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{Strategies: strategies, Logger: logger}
}

// Name lists the chained strategies.
func (l *Locator) Name() string {
	names := make([]string, len(l.Strategies))
	for i, s := range l.Strategies {
		names[i] = s.Name()
	}
	return strings.Join(names, ">")
}

// Discover returns up to limit entries from the first productive strategy.
// No entries from any strategy is not an error; the caller decides.
func (l *Locator) Discover(ctx context.Context, limit int) ([]lawharvest.ListingEntry, error) {
	for _, s := range l.Strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := s.Discover(ctx, limit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			l.Logger.Warn("listing strategy failed", zap.String("strategy", s.Name()), zap.Error(err))
			continue
		}
		if len(entries) == 0 {
			l.Logger.Info("listing strategy found nothing", zap.String("strategy", s.Name()))
			continue
		}

		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
		l.Logger.Info("listing strategy selected",
			zap.String("strategy", s.Name()),
			zap.Int("entries", len(entries)))
		return entries, nil
	}
	return nil, nil
}
