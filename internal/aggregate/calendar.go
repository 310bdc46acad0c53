package aggregate

import (
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/keepbalanced/internal/model"
)

// BlankLabel marks a grid cell that falls outside the anchor month.
const BlankLabel = "-"

// WeekGrid is one calendar week of a month laid out for a bar chart: always
// exactly seven cells, Monday first. Cells before day 1 or after the last day
// of the month are blank (zero amounts, BlankLabel).
type WeekGrid struct {
	IncomeBars  [7]decimal.Decimal
	ExpenseBars [7]decimal.Decimal
	XLabels     [7]string
	Title       string
}

// weekdayOffset returns the zero-based Monday-start weekday of day 1 of the
// anchor month (Monday=0 .. Sunday=6).
func weekdayOffset(anchor civil.Date) int {
	first := civil.Date{Year: anchor.Year, Month: anchor.Month, Day: 1}
	return (int(first.In(time.UTC).Weekday()) + 6) % 7
}

// DaysInMonth returns the number of days in the anchor's month.
func DaysInMonth(anchor civil.Date) int {
	return time.Date(anchor.Year, anchor.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildWeekGrid maps a month of transactions onto the 7-cell grid for the
// given zero-based week index. Cell i of week w covers month day
// w*7 + i - offset + 1; out-of-month days render as blank slots. The caller
// is responsible for clamping week (see ClampWeekIndex).
func BuildWeekGrid(monthTxs []model.Transaction, anchor civil.Date, week int) WeekGrid {
	offset := weekdayOffset(anchor)
	days := DaysInMonth(anchor)

	var grid WeekGrid
	firstRealDay, lastRealDay := -1, -1

	for i := 0; i < 7; i++ {
		day := week*7 + i - offset + 1
		if day < 1 || day > days {
			grid.XLabels[i] = BlankLabel
			continue
		}
		if firstRealDay == -1 {
			firstRealDay = day
		}
		lastRealDay = day
		grid.XLabels[i] = strconv.Itoa(day)

		for _, t := range monthTxs {
			if t.Date.Day != day {
				continue
			}
			switch t.Type {
			case model.TypeIncome:
				grid.IncomeBars[i] = grid.IncomeBars[i].Add(t.Amount)
			case model.TypeExpense:
				grid.ExpenseBars[i] = grid.ExpenseBars[i].Add(t.Amount)
			}
		}
	}

	if firstRealDay != -1 {
		grid.Title = fmt.Sprintf("Week %d (%d - %d)", week+1, firstRealDay, lastRealDay)
	} else {
		grid.Title = fmt.Sprintf("Week %d", week+1)
	}
	return grid
}

// ClampWeekIndex resets an index whose week holds no in-month day back to 0.
// Called whenever the underlying month changes.
func ClampWeekIndex(anchor civil.Date, week int) int {
	if week < 0 {
		return 0
	}
	firstDayOfWeek := week*7 - weekdayOffset(anchor) + 1
	if firstDayOfWeek > DaysInMonth(anchor) {
		return 0
	}
	return week
}

// CanAdvanceWeek reports whether the grid for week+1 would contain at least
// one in-month day.
func CanAdvanceWeek(anchor civil.Date, week int) bool {
	firstDayOfNextWeek := (week+1)*7 - weekdayOffset(anchor) + 1
	return firstDayOfNextWeek <= DaysInMonth(anchor)
}

// WeekIndexFor returns the week index whose grid row contains the given day
// of the anchor month. Used to start the monthly view on today's week.
func WeekIndexFor(anchor civil.Date, day int) int {
	if day < 1 {
		return 0
	}
	return (weekdayOffset(anchor) + day - 1) / 7
}
