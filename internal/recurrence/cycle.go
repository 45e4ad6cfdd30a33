// Package recurrence holds the pure date arithmetic behind recurring
// expenses: advancing a schedule to its next occurrence, deriving the
// schedule status shown to users, and validating cycle configuration.
//
// Nothing in this package reads the clock. Callers pass the reference time.
package recurrence

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// Frequency is how often a recurring expense repeats.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Frequencies lists every supported frequency in display order.
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly}

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	return slices.Contains(Frequencies, f)
}

func frequencyList() string {
	names := make([]string, len(Frequencies))
	for i, f := range Frequencies {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Defaults applied when a cycle anchor is unset.
const (
	DefaultDayOfWeek   = int(time.Monday)
	DefaultDayOfMonth  = 1
	DefaultMonthOfYear = 1
)

// ErrUnknownFrequency is returned by NextDue for frequencies outside Frequencies.
var ErrUnknownFrequency = errors.New("recurrence: unknown frequency")

// CycleDetails pins a schedule to a weekday, day of month or month of year.
// A nil field is unset and falls back to its default. DayOfWeek uses
// 0 = Sunday through 6 = Saturday.
type CycleDetails struct {
	DayOfWeek   *int `json:"day_of_week,omitempty"`
	DayOfMonth  *int `json:"day_of_month,omitempty"`
	MonthOfYear *int `json:"month_of_year,omitempty"`
}

func (cd CycleDetails) dayOfWeek() int {
	if cd.DayOfWeek == nil {
		return DefaultDayOfWeek
	}
	return *cd.DayOfWeek
}

func (cd CycleDetails) dayOfMonth() int {
	if cd.DayOfMonth == nil {
		return DefaultDayOfMonth
	}
	return *cd.DayOfMonth
}

func (cd CycleDetails) monthOfYear() int {
	if cd.MonthOfYear == nil {
		return DefaultMonthOfYear
	}
	return *cd.MonthOfYear
}

// Equal reports whether both cycle details resolve to the same anchors as
// stored (nil and an explicit value are different).
func (cd CycleDetails) Equal(other CycleDetails) bool {
	return intPtrEqual(cd.DayOfWeek, other.DayOfWeek) &&
		intPtrEqual(cd.DayOfMonth, other.DayOfMonth) &&
		intPtrEqual(cd.MonthOfYear, other.MonthOfYear)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// NextDue returns the first occurrence strictly after from. The wall-clock
// time of day and the location of from are preserved.
//
//   - daily:   from + 1 day
//   - weekly:  the next DayOfWeek after from; a full week when from already
//     falls on it
//   - monthly: DayOfMonth in the following calendar month
//   - yearly:  MonthOfYear/DayOfMonth in the following calendar year
//
// Monthly and yearly anchors past the end of the target month are clamped to
// its last day, so day 31 lands on Feb 28 or 29.
func NextDue(freq Frequency, cd CycleDetails, from time.Time) (time.Time, error) {
	switch freq {
	case FrequencyDaily:
		return from.AddDate(0, 0, 1), nil

	case FrequencyWeekly:
		days := (cd.dayOfWeek() - int(from.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return from.AddDate(0, 0, days), nil

	case FrequencyMonthly:
		// Day 1 never overflows, so Date normalizes December into January.
		first := time.Date(from.Year(), from.Month()+1, 1, 0, 0, 0, 0, from.Location())
		return onClampedDay(first.Year(), first.Month(), cd.dayOfMonth(), from), nil

	case FrequencyYearly:
		return onClampedDay(from.Year()+1, time.Month(cd.monthOfYear()), cd.dayOfMonth(), from), nil
	}

	return time.Time{}, ErrUnknownFrequency
}

// onClampedDay builds year/month/day at clock's time of day, clamping day to
// the month length.
func onClampedDay(year int, month time.Month, day int, clock time.Time) time.Time {
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day,
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), clock.Location())
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Occurrences returns up to limit successive occurrences strictly after from
// that fall on or before until. A zero until means unbounded.
func Occurrences(freq Frequency, cd CycleDetails, from, until time.Time, limit int) ([]time.Time, error) {
	var out []time.Time
	current := from
	for len(out) < limit {
		next, err := NextDue(freq, cd, current)
		if err != nil {
			return nil, err
		}
		if !until.IsZero() && next.After(until) {
			break
		}
		out = append(out, next)
		current = next
	}
	return out, nil
}
