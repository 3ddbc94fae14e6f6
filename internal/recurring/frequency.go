package recurring

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is how often a template falls due.
type Frequency int

const (
	Daily Frequency = iota + 1
	Weekly
	Monthly
	Yearly
)

func (f Frequency) String() string {
	switch f {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	}

	return "unknown"
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}

	return false
}

// ParseFrequency accepts the lower-case names produced by String.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	case "yearly":
		return Yearly, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
}

// Date truncates t to its calendar date, as seen in t's own location, and
// returns it as midnight UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextOccurrence returns the occurrence following current. Monthly and yearly
// steps keep current's day of month, clamped to the last day of shorter months
// (Jan 31 -> Feb 28, or Feb 29 in leap years; Feb 29 -> Feb 28 next year).
func NextOccurrence(current time.Time, f Frequency) time.Time {
	return step(Date(current), f, current.Day())
}

// step advances an occurrence by one period, aiming for anchorDay on monthly
// and yearly schedules so a clamped month does not shift later ones.
func step(current time.Time, f Frequency, anchorDay int) time.Time {
	switch f {
	case Daily:
		return current.AddDate(0, 0, 1)
	case Weekly:
		return current.AddDate(0, 0, 7)
	case Monthly:
		return clamped(current.Year(), current.Month()+1, anchorDay)
	case Yearly:
		return clamped(current.Year()+1, current.Month(), anchorDay)
	}

	panic(fmt.Sprintf("recurring: unhandled frequency %d", f))
}

// clamped builds year/month/day, normalising month overflow and limiting day
// to the month's length.
func clamped(year int, month time.Month, day int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	return first.AddDate(0, 0, min(day, daysIn(first))-1)
}

func daysIn(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
