// Package dashboard is the live view layer: it subscribes to the store's
// snapshot feeds and re-derives every active aggregation in full on each
// delivery. Derived state is replaced wholesale behind atomic pointers, so
// readers on other goroutines always see one consistent snapshot. View state
// that the app used to hide inside UI view models (selected month, week
// index, pagination position) lives in explicit value types here.
package dashboard

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/keepbalanced/internal/aggregate"
	"github.com/dvloznov/keepbalanced/internal/model"
)

// View is everything the monthly dashboard shows, derived from one month's
// transaction snapshot.
type View struct {
	Year  int
	Month int

	Summary            aggregate.Summary
	ExpensesByCategory map[string]decimal.Decimal
	IncomesByCategory  map[string]decimal.Decimal

	// Transactions keeps the snapshot itself for on-demand drill-downs.
	Transactions []model.Transaction
}

// BuildView recomputes the full monthly view from a fresh snapshot.
func BuildView(year, month int, txs []model.Transaction) *View {
	return &View{
		Year:               year,
		Month:              month,
		Summary:            aggregate.Summarize(txs),
		ExpensesByCategory: aggregate.GroupByCategory(txs, model.TypeExpense),
		IncomesByCategory:  aggregate.GroupByCategory(txs, model.TypeIncome),
		Transactions:       txs,
	}
}

// Breakdown drills into one category of this view's month.
func (v *View) Breakdown(category string, typ model.Type) []model.SubcategoryBreakdown {
	return aggregate.Breakdown(v.Transactions, category, typ)
}

// WeekGrid renders one week of this view's month.
func (v *View) WeekGrid(week int) aggregate.WeekGrid {
	return aggregate.BuildWeekGrid(v.Transactions, v.anchor(), week)
}

// ExpenseGroups returns the per-category expense transactions for the pie
// drill-down.
func (v *View) ExpenseGroups() map[string][]model.Transaction {
	return aggregate.GroupTransactionsByCategory(v.Transactions, model.TypeExpense)
}

func (v *View) anchor() civil.Date {
	return civil.Date{Year: v.Year, Month: time.Month(v.Month), Day: 1}
}
