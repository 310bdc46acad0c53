package aggregate

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/keepbalanced/internal/model"
)

func tx(typ model.Type, amount float64, category, subcategory string, date civil.Date) model.Transaction {
	return model.Transaction{
		UserID:      "user-1",
		Type:        typ,
		Amount:      decimal.NewFromFloat(amount),
		Category:    category,
		Subcategory: subcategory,
		Date:        date,
		Month:       int(date.Month),
		Year:        date.Year,
	}
}

func date(y int, m int, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func TestSummarize(t *testing.T) {
	march5 := date(2024, 3, 5)
	march1 := date(2024, 3, 1)

	tests := []struct {
		name        string
		txs         []model.Transaction
		wantIncome  string
		wantExpense string
		wantBalance string
	}{
		{
			name:        "empty input",
			txs:         nil,
			wantIncome:  "0",
			wantExpense: "0",
			wantBalance: "0",
		},
		{
			name: "income and expense",
			txs: []model.Transaction{
				tx(model.TypeExpense, 50, "Food", "", march5),
				tx(model.TypeIncome, 1000, "Salary", "", march1),
			},
			wantIncome:  "1000",
			wantExpense: "50",
			wantBalance: "950",
		},
		{
			name: "expense only goes negative",
			txs: []model.Transaction{
				tx(model.TypeExpense, 12.5, "Food", "", march5),
				tx(model.TypeExpense, 7.5, "", "", march5),
			},
			wantIncome:  "0",
			wantExpense: "20",
			wantBalance: "-20",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize(tc.txs)
			if got.Income.String() != tc.wantIncome {
				t.Errorf("Income = %s, want %s", got.Income, tc.wantIncome)
			}
			if got.Expense.String() != tc.wantExpense {
				t.Errorf("Expense = %s, want %s", got.Expense, tc.wantExpense)
			}
			if got.Balance.String() != tc.wantBalance {
				t.Errorf("Balance = %s, want %s", got.Balance, tc.wantBalance)
			}
			if !got.Balance.Equal(got.Income.Sub(got.Expense)) {
				t.Error("balance identity violated")
			}
		})
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	txs := []model.Transaction{
		tx(model.TypeExpense, 50, "Food", "", date(2024, 3, 5)),
		tx(model.TypeIncome, 1000, "Salary", "", date(2024, 3, 1)),
	}
	first := Summarize(txs)
	second := Summarize(txs)
	if !first.Income.Equal(second.Income) || !first.Expense.Equal(second.Expense) || !first.Balance.Equal(second.Balance) {
		t.Errorf("repeated call differs: %+v vs %+v", first, second)
	}
}

func TestGroupByCategory(t *testing.T) {
	march := date(2024, 3, 5)
	txs := []model.Transaction{
		tx(model.TypeExpense, 50, "Food", "", march),
		tx(model.TypeExpense, 30, "Food", "", march),
		tx(model.TypeExpense, 20, "", "", march),
		tx(model.TypeIncome, 1000, "Salary", "", march),
	}

	got := GroupByCategory(txs, model.TypeExpense)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d: %v", len(got), got)
	}
	if !got["Food"].Equal(decimal.NewFromInt(80)) {
		t.Errorf("Food = %s, want 80", got["Food"])
	}
	if !got[model.LabelUncategorized].Equal(decimal.NewFromInt(20)) {
		t.Errorf("Other = %s, want 20", got[model.LabelUncategorized])
	}

	income := GroupByCategory(txs, model.TypeIncome)
	if len(income) != 1 || !income["Salary"].Equal(decimal.NewFromInt(1000)) {
		t.Errorf("income grouping = %v", income)
	}
}

func TestGroupByCategoryEmpty(t *testing.T) {
	got := GroupByCategory(nil, model.TypeExpense)
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestGroupTransactionsByCategory(t *testing.T) {
	march := date(2024, 3, 5)
	txs := []model.Transaction{
		tx(model.TypeExpense, 50, "Food", "", march),
		tx(model.TypeExpense, 30, "", "", march),
		tx(model.TypeIncome, 1000, "Salary", "", march),
	}
	got := GroupTransactionsByCategory(txs, model.TypeExpense)
	if len(got["Food"]) != 1 {
		t.Errorf("Food group size = %d, want 1", len(got["Food"]))
	}
	if len(got[model.LabelUncategorized]) != 1 {
		t.Errorf("Other group size = %d, want 1", len(got[model.LabelUncategorized]))
	}
	if _, ok := got["Salary"]; ok {
		t.Error("income transaction leaked into expense grouping")
	}
}
