package model

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Type distinguishes money leaving the account from money entering it.
type Type string

const (
	TypeExpense Type = "expense"
	TypeIncome  Type = "income"
)

// Valid reports whether t is one of the two known transaction types.
func (t Type) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// Display labels for the aggregation fallbacks. An empty category means the
// user never picked one; an empty subcategory means the category has no
// further split.
const (
	LabelUncategorized = "Other"
	LabelNoSubcategory = "No subcategory"
)

// Transaction is one immutable money movement. Records are created once by
// user entry and never mutated; deletion happens only in the remote store.
//
// Month and Year are denormalized from Date at construction time: the monthly
// feed queries filter on them directly instead of on date ranges, so they must
// stay consistent with Date for the lifetime of the record.
type Transaction struct {
	ID          string
	UserID      string
	Type        Type
	Amount      decimal.Decimal
	Category    string // empty = uncategorized
	Subcategory string // empty = none
	Date        civil.Date
	Month       int // 1-indexed, derived from Date
	Year        int // derived from Date
}

// NewTransaction builds a transaction for the write path. Amount must be
// strictly positive and the type must be known; both are entry-validation
// concerns, checked here once and not re-validated by the aggregations.
func NewTransaction(userID string, typ Type, amount decimal.Decimal, category, subcategory string, date civil.Date) (Transaction, error) {
	if !typ.Valid() {
		return Transaction{}, fmt.Errorf("new transaction: unknown type %q", typ)
	}
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("new transaction: amount must be positive, got %s", amount)
	}
	if !date.IsValid() {
		return Transaction{}, fmt.Errorf("new transaction: invalid date %v", date)
	}
	return Transaction{
		UserID:      userID,
		Type:        typ,
		Amount:      amount,
		Category:    category,
		Subcategory: subcategory,
		Date:        date,
		Month:       int(date.Month),
		Year:        date.Year,
	}, nil
}

// CategoryLabel returns the category under which this transaction aggregates.
func (t Transaction) CategoryLabel() string {
	if t.Category == "" {
		return LabelUncategorized
	}
	return t.Category
}

// SubcategoryLabel returns the subcategory under which this transaction is
// broken down.
func (t Transaction) SubcategoryLabel() string {
	if t.Subcategory == "" {
		return LabelNoSubcategory
	}
	return t.Subcategory
}

// DenormalizedConsistent reports whether the cached Month/Year pair still
// agrees with Date. Readers keep the stored values either way (the store
// queries filter on them), but a mismatch is worth a warning.
func (t Transaction) DenormalizedConsistent() bool {
	return t.Month == int(t.Date.Month) && t.Year == t.Date.Year
}
