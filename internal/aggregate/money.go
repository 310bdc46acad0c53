// Package aggregate holds the pure aggregation core: it turns an unordered
// transaction snapshot into totals, category groupings, calendar week grids
// and cumulative investment series. Nothing here performs I/O; every function
// is a total function of its inputs and is recomputed in full on each feed
// update.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/dvloznov/keepbalanced/internal/model"
)

// Summary is the income/expense/balance triple for one transaction window.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Summarize sums a transaction set by type. Balance is always exactly
// income minus expense. An empty input yields an all-zero summary.
//
// Applied to a single month's feed this is the monthly view; applied to the
// full unfiltered history it yields the global balance, which is maintained
// independently and is not derivable from any one monthly summary.
func Summarize(txs []model.Transaction) Summary {
	var income, expense decimal.Decimal
	for _, t := range txs {
		switch t.Type {
		case model.TypeIncome:
			income = income.Add(t.Amount)
		case model.TypeExpense:
			expense = expense.Add(t.Amount)
		}
	}
	return Summary{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// GroupByCategory sums the transactions of one type per category label.
// Uncategorized transactions accumulate under model.LabelUncategorized.
// Iteration order of the result is unspecified; consumers sort as needed.
func GroupByCategory(txs []model.Transaction, typ model.Type) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Type != typ {
			continue
		}
		label := t.CategoryLabel()
		sums[label] = sums[label].Add(t.Amount)
	}
	return sums
}

// GroupTransactionsByCategory is GroupByCategory keeping the transactions
// themselves, for drill-down views that need the per-category records.
func GroupTransactionsByCategory(txs []model.Transaction, typ model.Type) map[string][]model.Transaction {
	groups := make(map[string][]model.Transaction)
	for _, t := range txs {
		if t.Type != typ {
			continue
		}
		label := t.CategoryLabel()
		groups[label] = append(groups[label], t)
	}
	return groups
}
