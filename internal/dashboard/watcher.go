package dashboard

import (
	"context"
	"sync/atomic"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/keepbalanced/internal/aggregate"
	"github.com/dvloznov/keepbalanced/internal/model"
)

// FeedSource is the subscription side of the store. Each method yields full
// snapshots on the first channel until the context ends; a feed failure
// arrives on the second channel and terminates that feed.
type FeedSource interface {
	WatchMonth(ctx context.Context, userID string, year, month int) (<-chan []model.Transaction, <-chan error)
	WatchUser(ctx context.Context, userID string) (<-chan []model.Transaction, <-chan error)
	WatchInvestments(ctx context.Context, userID, category string) (<-chan []model.Transaction, <-chan error)
}

// Watcher runs the three live feeds (selected month, full history, investment
// bucket) and keeps their derived aggregates fresh. Every snapshot triggers a
// full recompute whose result replaces the previous one atomically, so
// concurrent readers always observe one consistent derivation. A feed error
// is logged and leaves the last good value in place: the app operates on
// stale data until the next successful delivery or a feed restart.
type Watcher struct {
	feeds     FeedSource
	userID    string
	investCat string
	log       zerolog.Logger

	view     atomic.Pointer[View]
	global   atomic.Pointer[decimal.Decimal]
	invested atomic.Pointer[[]model.Transaction]
}

func NewWatcher(feeds FeedSource, userID, investmentCategory string, log zerolog.Logger) *Watcher {
	return &Watcher{
		feeds:     feeds,
		userID:    userID,
		investCat: investmentCategory,
		log:       log,
	}
}

// Run consumes all three feeds until the context ends. The month feed tracks
// the given calendar month; navigating to a different month means cancelling
// and running again for the new one.
func (w *Watcher) Run(ctx context.Context, year, month int) error {
	g, ctx := errgroup.WithContext(ctx)

	monthUpdates, monthErrs := w.feeds.WatchMonth(ctx, w.userID, year, month)
	g.Go(func() error {
		return w.consume(ctx, monthUpdates, monthErrs, func(txs []model.Transaction) {
			w.view.Store(BuildView(year, month, txs))
		})
	})

	userUpdates, userErrs := w.feeds.WatchUser(ctx, w.userID)
	g.Go(func() error {
		return w.consume(ctx, userUpdates, userErrs, func(txs []model.Transaction) {
			balance := aggregate.Summarize(txs).Balance
			w.global.Store(&balance)
		})
	})

	investUpdates, investErrs := w.feeds.WatchInvestments(ctx, w.userID, w.investCat)
	g.Go(func() error {
		return w.consume(ctx, investUpdates, investErrs, func(txs []model.Transaction) {
			w.invested.Store(&txs)
		})
	})

	return g.Wait()
}

func (w *Watcher) consume(ctx context.Context, updates <-chan []model.Transaction, errs <-chan error, apply func([]model.Transaction)) error {
	for {
		select {
		case txs, ok := <-updates:
			if !ok {
				return nil
			}
			apply(txs)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.log.Warn().Err(err).Msg("feed error; keeping stale derived state")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// View returns the latest monthly view, or nil before the first delivery.
func (w *Watcher) View() *View {
	return w.view.Load()
}

// GlobalBalance is income minus expense over the entire history. Independent
// of the monthly summary and not derivable from it.
func (w *Watcher) GlobalBalance() decimal.Decimal {
	if b := w.global.Load(); b != nil {
		return *b
	}
	return decimal.Zero
}

// InvestmentSeries derives the cumulative allocation series for the given
// range from the latest investment snapshot (already date-ascending).
func (w *Watcher) InvestmentSeries(r aggregate.TimeRange, today civil.Date) aggregate.Series {
	txs := w.invested.Load()
	if txs == nil {
		return aggregate.Series{}
	}
	return aggregate.CumulativeSeries(*txs, r, today, aggregate.SubstringClassifier)
}
