// Package calendar implements the program calendar projection: mapping an
// assignment's week/day grid onto calendar dates, expanding routine references
// into exercises, resolving completion across the four completion record
// types, and aggregating everything into one per-date view.
//
// The whole package is a pure projection over a loaded Snapshot; it performs
// no I/O and keeps no state between calls.
package calendar

import (
	"fmt"
	"math"
	"time"
)

// Date is a calendar date without a time of day. All schedule arithmetic
// happens on these, never on raw instants, so a client and a coach in
// different timezones agree on which drills belong to which day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates an instant to its local calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Local().Date()
	return Date{Year: y, Month: m, Day: d}
}

// UTCDateOf truncates an instant to its UTC calendar date. Replacement rows
// store their target date this way.
func UTCDateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String renders the YYYY-MM-DD form used as calendar map keys. It is built
// from the date components directly, never from an ISO/UTC split.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns local midnight of this date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// AddDays returns the date n days later (n may be negative). time.Date
// normalizes overflowing day components, which also absorbs DST transitions.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.Local))
}

// DaysBetween returns b - a in whole days. The division is rounded, not
// truncated, so 23- and 25-hour DST days still count as exactly one day.
func DaysBetween(a, b Date) int {
	diff := b.Time().Sub(a.Time())
	return int(math.Round(diff.Hours() / 24))
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool {
	return o.Before(d)
}

// MonthRange returns the first and last date of the given month.
func MonthRange(year int, month time.Month) (Date, Date) {
	first := Date{Year: year, Month: month, Day: 1}
	last := first.AddDays(32 - first.Day) // into next month
	last = Date{Year: last.Year, Month: last.Month, Day: 1}.AddDays(-1)
	return first, last
}
