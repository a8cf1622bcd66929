package core

import "time"

// Period selects a display range for the period chart.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

var ValidPeriods = []Period{
	PeriodDay,
	PeriodWeek,
	PeriodMonth,
	PeriodYear,
}

func (p Period) Label() string {
	switch p {
	case PeriodDay:
		return "Yesterday"
	case PeriodWeek:
		return "7 Days"
	case PeriodMonth:
		return "30 Days"
	case PeriodYear:
		return "12 Months"
	default:
		return "7 Days"
	}
}

func ParsePeriod(s string) Period {
	for _, p := range ValidPeriods {
		if string(p) == s {
			return p
		}
	}
	return PeriodWeek
}

// NextPeriod returns the next period in the cycle.
func NextPeriod(current Period) Period {
	for i, p := range ValidPeriods {
		if p == current {
			return ValidPeriods[(i+1)%len(ValidPeriods)]
		}
	}
	return ValidPeriods[0]
}

// AggregationLevel is the time-bucket granularity requested from the
// aggregation endpoint. Infinite collapses the range into a single total.
type AggregationLevel string

const (
	AggregationHour     AggregationLevel = "Hour"
	AggregationDay      AggregationLevel = "Day"
	AggregationMonth    AggregationLevel = "Month"
	AggregationInfinite AggregationLevel = "Infinite"
)

// Window is a concrete [start, end] date range plus the granularity to
// request for it. End is inclusive of end-of-day.
type Window struct {
	Start time.Time
	End   time.Time
	Level AggregationLevel
}

// Infinite returns a copy of the window that requests a single total
// instead of per-bucket values.
func (w Window) Infinite() Window {
	w.Level = AggregationInfinite
	return w
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// ResolveWindow maps a period to its date range, anchored to "yesterday":
// the upstream source only publishes complete data for days strictly before
// today, so a window's end never reaches the current calendar day.
//
//	day:   yesterday only, hourly buckets
//	week:  the 7 calendar days ending yesterday, daily buckets
//	month: the 30 calendar days ending yesterday, daily buckets
//	year:  end minus 12 calendar months (not 365 days), monthly buckets
//
// Unknown periods resolve like week.
func ResolveWindow(p Period, now time.Time) Window {
	yesterday := now.AddDate(0, 0, -1)
	end := endOfDay(yesterday)

	switch p {
	case PeriodDay:
		return Window{Start: startOfDay(yesterday), End: end, Level: AggregationHour}
	case PeriodMonth:
		return Window{Start: startOfDay(yesterday.AddDate(0, 0, -29)), End: end, Level: AggregationDay}
	case PeriodYear:
		return Window{Start: end.AddDate(-1, 0, 0), End: end, Level: AggregationMonth}
	default:
		return Window{Start: startOfDay(yesterday.AddDate(0, 0, -6)), End: end, Level: AggregationDay}
	}
}

// InvoiceWindow returns the calendar month immediately preceding the month
// of yesterday, so the range is always a fully elapsed month.
func InvoiceWindow(now time.Time) Window {
	yesterday := now.AddDate(0, 0, -1)
	firstOfMonth := time.Date(yesterday.Year(), yesterday.Month(), 1, 0, 0, 0, 0, yesterday.Location())
	start := firstOfMonth.AddDate(0, -1, 0)
	end := endOfDay(firstOfMonth.AddDate(0, 0, -1))
	return Window{Start: start, End: end, Level: AggregationInfinite}
}
