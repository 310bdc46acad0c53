package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// HistoryFilter narrows the history listing. All bounds are inclusive; a nil
// field means "no constraint". Type/category/date constraints are pushed to
// the store; the amount bounds are applied client-side after retrieval because
// the store cannot combine an amount range with the other predicates.
type HistoryFilter struct {
	DateFrom  *civil.Date
	DateTo    *civil.Date
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Category  *string
	Type      *Type
}

// Equal reports whether two filters describe the same constraints. A filter
// change is what resets pagination, so this compares values, not pointers.
func (f HistoryFilter) Equal(other HistoryFilter) bool {
	return equalDate(f.DateFrom, other.DateFrom) &&
		equalDate(f.DateTo, other.DateTo) &&
		equalDecimal(f.MinAmount, other.MinAmount) &&
		equalDecimal(f.MaxAmount, other.MaxAmount) &&
		equalString(f.Category, other.Category) &&
		equalType(f.Type, other.Type)
}

// MatchesAmount applies the client-side half of the filter.
func (f HistoryFilter) MatchesAmount(amount decimal.Decimal) bool {
	if f.MinAmount != nil && amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}

func equalDate(a, b *civil.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalDecimal(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalType(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
