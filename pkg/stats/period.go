package stats

import (
	"fmt"
	"strings"
	"time"
)

// Period selects the comparison window length.
type Period string

const (
	PeriodMonth Period = "Month"
	PeriodYear  Period = "Year"
)

// ParsePeriod accepts "month" or "year" in any case.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "month":
		return PeriodMonth, nil
	case "year":
		return PeriodYear, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Days is 30 for Month. Anything else is treated as a year.
func (p Period) Days() int {
	if strings.EqualFold(string(p), string(PeriodMonth)) {
		return 30
	}
	return 365
}

// Window is an inclusive date range.
type Window struct {
	From time.Time
	To   time.Time
}

// PeriodDates returns the current window [today-days, today] and the
// previous window of the same length ending the day before the current one
// starts.
func PeriodDates(p Period, today time.Time) (current, previous Window) {
	days := p.Days()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	current = Window{From: today.AddDate(0, 0, -days), To: today}
	prevTo := current.From.AddDate(0, 0, -1)
	previous = Window{From: prevTo.AddDate(0, 0, -(days - 1)), To: prevTo}
	return current, previous
}

// PctChange is nil when previous is zero.
func PctChange(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	change := (current - previous) / previous * 100.0
	return &change
}
