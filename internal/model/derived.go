package model

import "github.com/shopspring/decimal"

// SubcategoryBreakdown is one row of a category drill-down: the subcategory's
// total and its share of the category total. Percent runs 0-100.
type SubcategoryBreakdown struct {
	Name    string
	Amount  decimal.Decimal
	Percent float64
}

// PortfolioDistribution splits investment flow across the three sub-asset
// classes. Total is the sum of the three buckets; transactions matching none
// of them are excluded from all four fields.
type PortfolioDistribution struct {
	FixedIncome    decimal.Decimal
	VariableIncome decimal.Decimal
	Gold           decimal.Decimal
	Total          decimal.Decimal
}

// Zero reports whether the distribution carries no flow at all.
func (d PortfolioDistribution) Zero() bool {
	return d.Total.IsZero()
}
