package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/keepbalanced/internal/model"
)

func TestSubstringClassifier(t *testing.T) {
	tests := []struct {
		subcategory string
		want        AssetClass
	}{
		{"Renta Fija", AssetFixedIncome},
		{"renta fija", AssetFixedIncome},
		{"Renta Variable", AssetVariableIncome},
		{"Oro", AssetGold},
		{"ORO físico", AssetGold},
		{"Crypto", AssetNone},
		{"", AssetNone},
		// Fragile by contract: substring matching is preserved verbatim.
		{"Fijaciones", AssetFixedIncome},
	}
	for _, tc := range tests {
		if got := SubstringClassifier(tc.subcategory); got != tc.want {
			t.Errorf("SubstringClassifier(%q) = %v, want %v", tc.subcategory, got, tc.want)
		}
	}
}

func TestCumulativeSeriesEmpty(t *testing.T) {
	s := CumulativeSeries(nil, RangeAll, date(2024, 3, 15), SubstringClassifier)
	if len(s.Total) != 0 || len(s.FixedIncome) != 0 || len(s.VariableIncome) != 0 || len(s.Gold) != 0 {
		t.Errorf("expected empty series, got %+v", s)
	}
	if !s.TotalInvested.IsZero() {
		t.Errorf("TotalInvested = %s, want 0", s.TotalInvested)
	}
	if !s.Distribution.Zero() {
		t.Errorf("Distribution = %+v, want all-zero", s.Distribution)
	}
}

func TestCumulativeSeriesAll(t *testing.T) {
	today := date(2024, 3, 5)
	txs := []model.Transaction{
		tx(model.TypeExpense, 100, "Investment", "Renta Fija", date(2024, 3, 1)),
		tx(model.TypeExpense, 50, "Investment", "Renta Variable", date(2024, 3, 3)),
		tx(model.TypeExpense, 25, "Investment", "Oro", date(2024, 3, 3)),
	}

	s := CumulativeSeries(txs, RangeAll, today, SubstringClassifier)

	// One point per day from the earliest transaction through today.
	if len(s.Total) != 5 {
		t.Fatalf("total series length = %d, want 5", len(s.Total))
	}
	if !s.Total[0].Value.Equal(decimal.NewFromInt(100)) {
		t.Errorf("day 1 total = %s, want 100", s.Total[0].Value)
	}
	if !s.Total[4].Value.Equal(decimal.NewFromInt(175)) {
		t.Errorf("day 5 total = %s, want 175", s.Total[4].Value)
	}

	// Sub-series appear only once funded: variable and gold start on day 3.
	if len(s.FixedIncome) != 5 {
		t.Errorf("fixed series length = %d, want 5", len(s.FixedIncome))
	}
	if len(s.VariableIncome) != 3 {
		t.Errorf("variable series length = %d, want 3", len(s.VariableIncome))
	}
	if len(s.Gold) != 3 {
		t.Errorf("gold series length = %d, want 3", len(s.Gold))
	}
	if s.VariableIncome[0].Date != date(2024, 3, 3) {
		t.Errorf("variable series starts %v, want 2024-03-03", s.VariableIncome[0].Date)
	}

	if !s.TotalInvested.Equal(decimal.NewFromInt(175)) {
		t.Errorf("TotalInvested = %s, want 175", s.TotalInvested)
	}
}

func TestCumulativeSeriesMonotonicTotal(t *testing.T) {
	today := date(2024, 3, 10)
	txs := []model.Transaction{
		tx(model.TypeExpense, 10, "Investment", "Renta Fija", date(2024, 2, 20)),
		tx(model.TypeExpense, 5, "Investment", "Oro", date(2024, 3, 2)),
		tx(model.TypeExpense, 20, "Investment", "Renta Variable", date(2024, 3, 7)),
	}
	s := CumulativeSeries(txs, RangeAll, today, SubstringClassifier)
	for i := 1; i < len(s.Total); i++ {
		if s.Total[i].Value.LessThan(s.Total[i-1].Value) {
			t.Fatalf("total decreased at %v: %s -> %s", s.Total[i].Date, s.Total[i-1].Value, s.Total[i].Value)
		}
	}
}

func TestCumulativeSeriesCarryForward(t *testing.T) {
	// One-month window: starts on day 1 of the current month. The February
	// purchase becomes prior balance; the line must start at its height, and
	// the distribution must exclude it.
	today := date(2024, 3, 5)
	txs := []model.Transaction{
		tx(model.TypeExpense, 200, "Investment", "Renta Fija", date(2024, 2, 10)),
		tx(model.TypeExpense, 50, "Investment", "Renta Variable", date(2024, 3, 2)),
	}

	s := CumulativeSeries(txs, RangeOneMonth, today, SubstringClassifier)

	if len(s.Total) != 5 {
		t.Fatalf("total series length = %d, want 5 (March 1-5)", len(s.Total))
	}
	if s.Total[0].Date != date(2024, 3, 1) {
		t.Errorf("window starts %v, want 2024-03-01", s.Total[0].Date)
	}
	if !s.Total[0].Value.Equal(decimal.NewFromInt(200)) {
		t.Errorf("first point = %s, want carried-forward 200", s.Total[0].Value)
	}
	if !s.Total[4].Value.Equal(decimal.NewFromInt(250)) {
		t.Errorf("last point = %s, want 250", s.Total[4].Value)
	}
	if !s.TotalInvested.Equal(decimal.NewFromInt(250)) {
		t.Errorf("TotalInvested = %s, want 250", s.TotalInvested)
	}

	// Prior fixed-income balance keeps that sub-series funded from day one.
	if len(s.FixedIncome) != 5 {
		t.Errorf("fixed series length = %d, want 5", len(s.FixedIncome))
	}

	// Period distribution is window flow only.
	if !s.Distribution.FixedIncome.IsZero() {
		t.Errorf("distribution fixed = %s, want 0 (prior balance excluded)", s.Distribution.FixedIncome)
	}
	if !s.Distribution.VariableIncome.Equal(decimal.NewFromInt(50)) {
		t.Errorf("distribution variable = %s, want 50", s.Distribution.VariableIncome)
	}
	if !s.Distribution.Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("distribution total = %s, want 50", s.Distribution.Total)
	}
}

func TestCumulativeSeriesUnmatchedSubcategory(t *testing.T) {
	today := date(2024, 3, 2)
	txs := []model.Transaction{
		tx(model.TypeExpense, 30, "Investment", "Crypto", date(2024, 3, 1)),
	}
	s := CumulativeSeries(txs, RangeAll, today, SubstringClassifier)

	// Unmatched flow still moves the total line but lands in no bucket.
	if !s.TotalInvested.Equal(decimal.NewFromInt(30)) {
		t.Errorf("TotalInvested = %s, want 30", s.TotalInvested)
	}
	if len(s.FixedIncome)+len(s.VariableIncome)+len(s.Gold) != 0 {
		t.Error("unmatched subcategory produced sub-series points")
	}
	if !s.Distribution.Zero() {
		t.Errorf("Distribution = %+v, want all-zero", s.Distribution)
	}
}

func TestRangeStarts(t *testing.T) {
	today := date(2024, 3, 15)
	txs := []model.Transaction{
		tx(model.TypeExpense, 10, "Investment", "Oro", date(2022, 7, 9)),
	}
	tests := []struct {
		name string
		r    TimeRange
		want string
	}{
		{"one month", RangeOneMonth, "2024-03-01"},
		{"six months", RangeSixMonths, "2023-10-01"},
		{"one year", RangeOneYear, "2023-04-01"},
		{"all", RangeAll, "2022-07-09"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := rangeStart(txs, tc.r, today).String(); got != tc.want {
				t.Errorf("rangeStart = %s, want %s", got, tc.want)
			}
		})
	}
}
