package aggregate

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/keepbalanced/internal/model"
)

// TimeRange selects the window of an investment chart. The month-based ranges
// anchor to day 1 of the month N-1 months back, not a rolling day count, so
// the chart boundaries line up with human-readable months.
type TimeRange int

const (
	RangeOneMonth TimeRange = iota
	RangeSixMonths
	RangeOneYear
	RangeAll
)

// AssetClass is the sub-asset bucket of an investment transaction.
type AssetClass int

const (
	AssetNone AssetClass = iota
	AssetFixedIncome
	AssetVariableIncome
	AssetGold
)

// AssetClassifier maps a subcategory to its sub-asset class. Injected so the
// matching rule can be replaced without touching the series walk.
type AssetClassifier func(subcategory string) AssetClass

// SubstringClassifier is the production rule: case-insensitive substring
// match against "Fija", "Variable" and "Oro", in that precedence. Known to be
// fragile (a subcategory like "Fijaciones" would match), but the semantics
// are load-bearing for existing data and are kept verbatim.
func SubstringClassifier(subcategory string) AssetClass {
	s := strings.ToLower(subcategory)
	switch {
	case strings.Contains(s, "fija"):
		return AssetFixedIncome
	case strings.Contains(s, "variable"):
		return AssetVariableIncome
	case strings.Contains(s, "oro"):
		return AssetGold
	}
	return AssetNone
}

// Point is one plotted day of a cumulative series.
type Point struct {
	Date  civil.Date
	Value decimal.Decimal
}

// Series is the investment chart data for one time range.
//
// TotalInvested is the cumulative total at the end of the walk, prior balance
// included. Distribution covers only the window's own flow; the two answer
// different questions and must not be conflated.
type Series struct {
	Total          []Point
	FixedIncome    []Point
	VariableIncome []Point
	Gold           []Point
	TotalInvested  decimal.Decimal
	Distribution   model.PortfolioDistribution
}

// CumulativeSeries builds the daily cumulative investment series.
//
// txs must already be one semantic bucket (the investment feed) sorted
// ascending by date. The walk first folds all transactions strictly before
// the window start into a prior balance so the line starts at the right
// height, then emits one point per calendar day from start to today
// inclusive. The total series always gets a point; each sub-series only emits
// once its cumulative value is positive, so an unfunded asset class draws no
// leading zero line.
func CumulativeSeries(txs []model.Transaction, r TimeRange, today civil.Date, classify AssetClassifier) Series {
	if len(txs) == 0 {
		return Series{}
	}

	start := rangeStart(txs, r, today)

	var total, fixed, variable, gold decimal.Decimal
	byDay := make(map[civil.Date][]model.Transaction)
	var inWindow []model.Transaction
	for _, t := range txs {
		if t.Date.Before(start) {
			total = total.Add(t.Amount)
			switch classify(t.Subcategory) {
			case AssetFixedIncome:
				fixed = fixed.Add(t.Amount)
			case AssetVariableIncome:
				variable = variable.Add(t.Amount)
			case AssetGold:
				gold = gold.Add(t.Amount)
			}
			continue
		}
		if !t.Date.After(today) {
			inWindow = append(inWindow, t)
		}
		byDay[t.Date] = append(byDay[t.Date], t)
	}

	var s Series
	for day := start; !day.After(today); day = day.AddDays(1) {
		for _, t := range byDay[day] {
			total = total.Add(t.Amount)
			switch classify(t.Subcategory) {
			case AssetFixedIncome:
				fixed = fixed.Add(t.Amount)
			case AssetVariableIncome:
				variable = variable.Add(t.Amount)
			case AssetGold:
				gold = gold.Add(t.Amount)
			}
		}
		s.Total = append(s.Total, Point{Date: day, Value: total})
		if fixed.IsPositive() {
			s.FixedIncome = append(s.FixedIncome, Point{Date: day, Value: fixed})
		}
		if variable.IsPositive() {
			s.VariableIncome = append(s.VariableIncome, Point{Date: day, Value: variable})
		}
		if gold.IsPositive() {
			s.Gold = append(s.Gold, Point{Date: day, Value: gold})
		}
	}
	s.TotalInvested = total
	s.Distribution = Distribution(inWindow, classify)
	return s
}

// Distribution sums a transaction window into the three sub-asset buckets.
// This is period-local flow only; carried-forward balances never enter it.
func Distribution(txs []model.Transaction, classify AssetClassifier) model.PortfolioDistribution {
	var d model.PortfolioDistribution
	for _, t := range txs {
		switch classify(t.Subcategory) {
		case AssetFixedIncome:
			d.FixedIncome = d.FixedIncome.Add(t.Amount)
		case AssetVariableIncome:
			d.VariableIncome = d.VariableIncome.Add(t.Amount)
		case AssetGold:
			d.Gold = d.Gold.Add(t.Amount)
		}
	}
	d.Total = d.FixedIncome.Add(d.VariableIncome).Add(d.Gold)
	return d
}

// rangeStart resolves the window start. txs must be non-empty and sorted
// ascending for RangeAll.
func rangeStart(txs []model.Transaction, r TimeRange, today civil.Date) civil.Date {
	switch r {
	case RangeOneMonth:
		return monthStart(today, 0)
	case RangeSixMonths:
		return monthStart(today, 5)
	case RangeOneYear:
		return monthStart(today, 11)
	default:
		return txs[0].Date
	}
}

// monthStart returns day 1 of the month monthsBack months before today's.
func monthStart(today civil.Date, monthsBack int) civil.Date {
	t := time.Date(today.Year, today.Month-time.Month(monthsBack), 1, 0, 0, 0, 0, time.UTC)
	return civil.DateOf(t)
}
