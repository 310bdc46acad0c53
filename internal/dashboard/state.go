package dashboard

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/keepbalanced/internal/aggregate"
)

// MonthState is the monthly screen's navigation position: which month is
// selected and which week of it is shown. All transitions return a new value;
// nothing is mutated in place.
type MonthState struct {
	Anchor civil.Date // day 1 of the selected month
	Week   int        // zero-based week index into the month grid
}

// CurrentMonthState starts on today's month with today's week selected.
func CurrentMonthState(today civil.Date) MonthState {
	anchor := civil.Date{Year: today.Year, Month: today.Month, Day: 1}
	return MonthState{
		Anchor: anchor,
		Week:   aggregate.WeekIndexFor(anchor, today.Day),
	}
}

// Title renders the month header, e.g. "March 2024".
func (s MonthState) Title() string {
	return s.Anchor.In(time.UTC).Format("January 2006")
}

// PrevMonth moves one month back and resets the week index.
func (s MonthState) PrevMonth() MonthState {
	return MonthState{Anchor: addMonths(s.Anchor, -1)}
}

// NextMonth moves one month forward and resets the week index.
func (s MonthState) NextMonth() MonthState {
	return MonthState{Anchor: addMonths(s.Anchor, 1)}
}

// NextWeek advances the week only while the next grid row still contains an
// in-month day.
func (s MonthState) NextWeek() MonthState {
	if aggregate.CanAdvanceWeek(s.Anchor, s.Week) {
		s.Week++
	}
	return s
}

// PrevWeek steps back, blocked below week 0.
func (s MonthState) PrevWeek() MonthState {
	if s.Week > 0 {
		s.Week--
	}
	return s
}

// Clamped resets a week index that no longer fits the month. Applied whenever
// the underlying month data changes.
func (s MonthState) Clamped() MonthState {
	s.Week = aggregate.ClampWeekIndex(s.Anchor, s.Week)
	return s
}

func addMonths(anchor civil.Date, n int) civil.Date {
	t := time.Date(anchor.Year, anchor.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return civil.DateOf(t)
}
