// Package history walks the transaction history in filter-scoped pages. The
// page size grows by a fixed step on each advance instead of cursoring, and
// end-of-data is inferred from a short raw page. Pagination state is an
// explicit value passed in and out, so there is no hidden engine state to
// reset between tests or screens.
package history

import (
	"context"
	"fmt"

	"github.com/dvloznov/keepbalanced/internal/model"
)

// StepSize is how much the requested limit grows per advance.
const StepSize = 10

// Store is the one-shot paged query against the remote document store:
// newest first, server-side type/category/date predicates, at most limit
// records. Amount bounds are NOT applied here (the store cannot combine an
// amount range with the other predicates).
type Store interface {
	QueryPage(ctx context.Context, userID string, filter model.HistoryFilter, limit int) ([]model.Transaction, error)
}

// State is the pagination position: the active filter, the current limit and
// a generation counter. The generation changes on every reset, letting a
// caller discard a page that was fetched under a superseded filter.
type State struct {
	Filter model.HistoryFilter
	Limit  int
	Gen    uint64
}

// NewState starts pagination over with the given filter at one step.
func NewState(filter model.HistoryFilter) State {
	return State{Filter: filter, Limit: StepSize, Gen: 1}
}

// WithFilter returns the state to use after the user edits the filter: a
// changed filter resets the limit and bumps the generation, an identical one
// leaves the state untouched.
func (s State) WithFilter(filter model.HistoryFilter) State {
	if s.Filter.Equal(filter) {
		return s
	}
	return State{Filter: filter, Limit: StepSize, Gen: s.Gen + 1}
}

// Reset restores the limit to one step under the same filter (explicit
// refresh). The generation still advances so in-flight fetches go stale.
func (s State) Reset() State {
	return State{Filter: s.Filter, Limit: StepSize, Gen: s.Gen + 1}
}

// Advance grows the limit by one step.
func (s State) Advance() State {
	s.Limit += StepSize
	return s
}

// Page is one fetch result. End means the store returned fewer raw records
// than requested (or none), i.e. the history is exhausted. Because the amount
// bounds are applied after the fetch, Items may be shorter than the raw page
// without End being set — and, conversely, heavy amount filtering can make
// End fire while matching records remain beyond the limit. That imprecision
// is accepted; see the package documentation of the store for why the amount
// predicate cannot be pushed down.
type Page struct {
	Items []model.Transaction
	End   bool
	Gen   uint64
}

// Paginator fetches pages for one user. It holds no pagination state itself.
type Paginator struct {
	store  Store
	userID string
}

func NewPaginator(store Store, userID string) *Paginator {
	return &Paginator{store: store, userID: userID}
}

// Fetch loads the page described by state. The returned page carries the
// state's generation; callers that have since reset must drop it.
func (p *Paginator) Fetch(ctx context.Context, state State) (Page, error) {
	raw, err := p.store.QueryPage(ctx, p.userID, state.Filter, state.Limit)
	if err != nil {
		return Page{}, fmt.Errorf("history fetch: %w", err)
	}

	items := make([]model.Transaction, 0, len(raw))
	for _, t := range raw {
		if state.Filter.MatchesAmount(t.Amount) {
			items = append(items, t)
		}
	}

	return Page{
		Items: items,
		End:   len(raw) < state.Limit,
		Gen:   state.Gen,
	}, nil
}
