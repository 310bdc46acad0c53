package firestore

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/keepbalanced/internal/model"
)

// Field names of the transaction document. The monthly feeds filter on the
// denormalized month/year fields, not on date ranges.
const (
	fieldUserID      = "userId"
	fieldType        = "type"
	fieldAmount      = "amount"
	fieldCategory    = "category"
	fieldSubcategory = "subcategory"
	fieldDate        = "date"
	fieldMonth       = "month"
	fieldYear        = "year"
)

// transactionDoc is the Firestore document shape. Amounts travel as float64
// (the store has no decimal type); the domain model converts them back to
// decimals at the boundary. The date is stored as a timestamp but only its
// calendar day is meaningful.
type transactionDoc struct {
	UserID      string    `firestore:"userId"`
	Type        string    `firestore:"type"`
	Amount      float64   `firestore:"amount"`
	Category    string    `firestore:"category"`
	Subcategory string    `firestore:"subcategory"`
	Date        time.Time `firestore:"date"`
	Month       int       `firestore:"month"`
	Year        int       `firestore:"year"`
}

func toDoc(t model.Transaction) transactionDoc {
	return transactionDoc{
		UserID:      t.UserID,
		Type:        string(t.Type),
		Amount:      t.Amount.InexactFloat64(),
		Category:    t.Category,
		Subcategory: t.Subcategory,
		Date:        t.Date.In(time.UTC),
		Month:       t.Month,
		Year:        t.Year,
	}
}

func (d transactionDoc) toModel(id string, log zerolog.Logger) model.Transaction {
	t := model.Transaction{
		ID:          id,
		UserID:      d.UserID,
		Type:        model.Type(d.Type),
		Amount:      decimal.NewFromFloat(d.Amount),
		Category:    d.Category,
		Subcategory: d.Subcategory,
		Date:        civil.DateOf(d.Date),
		Month:       d.Month,
		Year:        d.Year,
	}
	// The stored month/year stay authoritative for querying, but drift from
	// the date is a data bug worth surfacing.
	if !t.DenormalizedConsistent() {
		log.Warn().
			Str("transaction_id", id).
			Str("date", t.Date.String()).
			Int("month", t.Month).
			Int("year", t.Year).
			Msg("denormalized month/year disagree with date")
	}
	return t
}
