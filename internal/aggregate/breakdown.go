package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/keepbalanced/internal/model"
)

// Breakdown computes the subcategory split of one category for one type.
// Asking for model.LabelUncategorized matches transactions with an empty
// category. A zero category total (including an empty filtered set) returns
// nil: there is nothing to show, which is a signal to the caller, not an
// error. Results are sorted by amount descending; ties keep first-encountered
// order.
func Breakdown(txs []model.Transaction, category string, typ model.Type) []model.SubcategoryBreakdown {
	var filtered []model.Transaction
	for _, t := range txs {
		if t.Type != typ {
			continue
		}
		if t.Category == category || (category == model.LabelUncategorized && t.Category == "") {
			filtered = append(filtered, t)
		}
	}

	var total decimal.Decimal
	for _, t := range filtered {
		total = total.Add(t.Amount)
	}
	if total.IsZero() {
		return nil
	}

	// Keys in encounter order so that equal amounts sort deterministically.
	var names []string
	sums := make(map[string]decimal.Decimal)
	for _, t := range filtered {
		label := t.SubcategoryLabel()
		if _, ok := sums[label]; !ok {
			names = append(names, label)
		}
		sums[label] = sums[label].Add(t.Amount)
	}

	result := make([]model.SubcategoryBreakdown, 0, len(names))
	for _, name := range names {
		amount := sums[name]
		percent, _ := amount.Div(total).Mul(decimal.NewFromInt(100)).Float64()
		result = append(result, model.SubcategoryBreakdown{
			Name:    name,
			Amount:  amount,
			Percent: percent,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Amount.GreaterThan(result[j].Amount)
	})
	return result
}
