package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dvloznov/keepbalanced/internal/model"
)

// DefaultCollection is the transaction collection unless configured otherwise.
const DefaultCollection = "transactions"

// NewClient dials Firestore for the given project.
func NewClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}

// Store reads and appends transaction documents for all screens.
type Store struct {
	client     *firestore.Client
	collection string
	log        zerolog.Logger
}

func NewStore(client *firestore.Client, collection string, log zerolog.Logger) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{client: client, collection: collection, log: log}
}

// Append writes one immutable transaction and returns its document ID.
// There is no update or delete counterpart.
func (s *Store) Append(ctx context.Context, t model.Transaction) (string, error) {
	id := uuid.NewString()
	if _, err := s.client.Collection(s.collection).Doc(id).Create(ctx, toDoc(t)); err != nil {
		return "", fmt.Errorf("append transaction: %w", err)
	}
	return id, nil
}

// QueryPage runs the history query: newest first, server-side predicates for
// type, category and the date range, at most limit documents. Amount bounds
// are intentionally absent; the paginator applies them client-side.
func (s *Store) QueryPage(ctx context.Context, userID string, filter model.HistoryFilter, limit int) ([]model.Transaction, error) {
	q := s.client.Collection(s.collection).
		Where(fieldUserID, "==", userID).
		OrderBy(fieldDate, firestore.Desc)

	if filter.Type != nil {
		q = q.Where(fieldType, "==", string(*filter.Type))
	}
	if filter.Category != nil {
		q = q.Where(fieldCategory, "==", *filter.Category)
	}
	if filter.DateFrom != nil {
		q = q.Where(fieldDate, ">=", filter.DateFrom.In(time.UTC))
	}
	if filter.DateTo != nil {
		q = q.Where(fieldDate, "<=", filter.DateTo.In(time.UTC))
	}
	q = q.Limit(limit)

	txs, err := s.collect(q.Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("query history page: %w", err)
	}
	return txs, nil
}

// QueryMonth fetches one month of the user's transactions once, via the
// denormalized month/year fields.
func (s *Store) QueryMonth(ctx context.Context, userID string, year, month int) ([]model.Transaction, error) {
	q := s.client.Collection(s.collection).
		Where(fieldUserID, "==", userID).
		Where(fieldYear, "==", year).
		Where(fieldMonth, "==", month)
	txs, err := s.collect(q.Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("query month %d-%02d: %w", year, month, err)
	}
	return txs, nil
}

// QueryInvestments fetches the investment bucket once, sorted ascending by
// date as the allocation engine requires.
func (s *Store) QueryInvestments(ctx context.Context, userID, category string) ([]model.Transaction, error) {
	q := s.client.Collection(s.collection).
		Where(fieldUserID, "==", userID).
		Where(fieldType, "==", string(model.TypeExpense)).
		Where(fieldCategory, "==", category)
	txs, err := s.collect(q.Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("query investments: %w", err)
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
	return txs, nil
}

// WatchMonth subscribes to one month of the user's transactions via the
// denormalized month/year fields. Every remote change delivers a full fresh
// snapshot on the first channel; a feed failure is reported on the second and
// ends the feed, leaving whatever the consumer last received untouched.
func (s *Store) WatchMonth(ctx context.Context, userID string, year, month int) (<-chan []model.Transaction, <-chan error) {
	q := s.client.Collection(s.collection).
		Where(fieldUserID, "==", userID).
		Where(fieldYear, "==", year).
		Where(fieldMonth, "==", month)
	return s.watch(ctx, q, false)
}

// WatchUser subscribes to the user's entire history (the global balance feed).
func (s *Store) WatchUser(ctx context.Context, userID string) (<-chan []model.Transaction, <-chan error) {
	q := s.client.Collection(s.collection).
		Where(fieldUserID, "==", userID)
	return s.watch(ctx, q, false)
}

// WatchInvestments subscribes to the investment bucket: expense transactions
// in the given category, delivered sorted ascending by date as the allocation
// engine requires.
func (s *Store) WatchInvestments(ctx context.Context, userID, category string) (<-chan []model.Transaction, <-chan error) {
	q := s.client.Collection(s.collection).
		Where(fieldUserID, "==", userID).
		Where(fieldType, "==", string(model.TypeExpense)).
		Where(fieldCategory, "==", category)
	return s.watch(ctx, q, true)
}

func (s *Store) watch(ctx context.Context, q firestore.Query, sortAsc bool) (<-chan []model.Transaction, <-chan error) {
	updates := make(chan []model.Transaction)
	errs := make(chan error, 1)

	go func() {
		defer close(updates)
		defer close(errs)

		it := q.Snapshots(ctx)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || ctx.Err() != nil {
					return
				}
				errs <- fmt.Errorf("snapshot feed: %w", err)
				return
			}

			txs, err := s.collect(snap.Documents)
			if err != nil {
				// Skip the broken snapshot; the consumer keeps its stale one.
				select {
				case errs <- err:
				default:
				}
				continue
			}
			if sortAsc {
				sort.Slice(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
			}

			select {
			case updates <- txs:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates, errs
}

func (s *Store) collect(it *firestore.DocumentIterator) ([]model.Transaction, error) {
	defer it.Stop()

	var txs []model.Transaction
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate documents: %w", err)
		}
		var row transactionDoc
		if err := doc.DataTo(&row); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", doc.Ref.ID, err)
		}
		txs = append(txs, row.toModel(doc.Ref.ID, s.log))
	}
	return txs, nil
}
