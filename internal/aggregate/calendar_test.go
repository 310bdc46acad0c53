package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/keepbalanced/internal/model"
)

func TestBuildWeekGrid(t *testing.T) {
	// March 2023: day 1 is a Wednesday, so the Monday-start offset is 2 and
	// the month has 31 days.
	anchor := date(2023, 3, 1)

	t.Run("leading blanks before day one", func(t *testing.T) {
		txs := []model.Transaction{
			tx(model.TypeExpense, 25, "Food", "", date(2023, 3, 1)),
			tx(model.TypeIncome, 100, "Salary", "", date(2023, 3, 3)),
		}
		grid := BuildWeekGrid(txs, anchor, 0)

		if grid.XLabels[0] != BlankLabel || grid.XLabels[1] != BlankLabel {
			t.Errorf("cells 0,1 should be blank, got %q %q", grid.XLabels[0], grid.XLabels[1])
		}
		if grid.XLabels[2] != "1" {
			t.Errorf("cell 2 should be day 1, got %q", grid.XLabels[2])
		}
		if !grid.ExpenseBars[2].Equal(decimal.NewFromInt(25)) {
			t.Errorf("day 1 expense = %s, want 25", grid.ExpenseBars[2])
		}
		if !grid.IncomeBars[4].Equal(decimal.NewFromInt(100)) {
			t.Errorf("day 3 income = %s, want 100", grid.IncomeBars[4])
		}
		if !grid.ExpenseBars[0].IsZero() || !grid.IncomeBars[0].IsZero() {
			t.Error("blank cell carries a non-zero amount")
		}
		if grid.Title != "Week 1 (1 - 5)" {
			t.Errorf("Title = %q", grid.Title)
		}
	})

	t.Run("trailing blanks after last day", func(t *testing.T) {
		// Week index 4 of March 2023 covers days 27-31 plus two blanks.
		grid := BuildWeekGrid(nil, anchor, 4)
		if grid.XLabels[0] != "27" || grid.XLabels[4] != "31" {
			t.Errorf("labels = %v", grid.XLabels)
		}
		if grid.XLabels[5] != BlankLabel || grid.XLabels[6] != BlankLabel {
			t.Errorf("cells 5,6 should be blank, got %v", grid.XLabels)
		}
		if grid.Title != "Week 5 (27 - 31)" {
			t.Errorf("Title = %q", grid.Title)
		}
	})

	t.Run("always seven cells", func(t *testing.T) {
		grid := BuildWeekGrid(nil, anchor, 2)
		for i, label := range grid.XLabels {
			if label == "" {
				t.Errorf("cell %d has no label", i)
			}
		}
	})
}

func TestClampWeekIndex(t *testing.T) {
	anchor := date(2023, 3, 1) // offset 2, 31 days: valid weeks are 0..4

	tests := []struct {
		name string
		week int
		want int
	}{
		{"negative resets", -1, 0},
		{"zero stays", 0, 0},
		{"last valid week stays", 4, 4},
		{"past the month resets", 5, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampWeekIndex(anchor, tc.week); got != tc.want {
				t.Errorf("ClampWeekIndex(%d) = %d, want %d", tc.week, got, tc.want)
			}
		})
	}
}

func TestCanAdvanceWeek(t *testing.T) {
	anchor := date(2023, 3, 1)
	if !CanAdvanceWeek(anchor, 0) {
		t.Error("should advance from week 0")
	}
	if !CanAdvanceWeek(anchor, 3) {
		t.Error("should advance into the final partial week")
	}
	if CanAdvanceWeek(anchor, 4) {
		t.Error("must not advance past the last in-month week")
	}
}

func TestWeekIndexFor(t *testing.T) {
	anchor := date(2023, 3, 1) // offset 2
	tests := []struct {
		day  int
		want int
	}{
		{1, 0},
		{5, 0},
		{6, 1},
		{31, 4},
	}
	for _, tc := range tests {
		if got := WeekIndexFor(anchor, tc.day); got != tc.want {
			t.Errorf("WeekIndexFor(day %d) = %d, want %d", tc.day, got, tc.want)
		}
	}
}
