/*
Package fiscal maps calendar dates to contractual fiscal years.

PURPOSE:
  The repayment contract runs on a non-calendar fiscal year: April 5 of the
  start year through March 5 of the following year, inclusive on both ends.
  This package is the single source of truth for that mapping. Payment
  bucketing and receipt lookup both resolve dates through it, so a given
  payment date always lands in the same fiscal year everywhere.

KEY CONCEPTS:
  - Date: a day-granularity point in time (no clock, always UTC)
  - Year: a fiscal year identified by its starting calendar year
  - Penalty cutoff: March 3 of the ending year; unpaid balance becomes
    penalizable strictly after this date

USAGE:
  fy := fiscal.YearOf(date)        // which fiscal year a date falls in
  start, end := fy.Bounds()        // April 5 .. March 5
  fy.Label()                       // "2025-2026"
  date.After(fy.PenaltyCutoff())   // penalty window reached?

SEE ALSO:
  - ledger/schedule.go: consumes this package for obligation bucketing
*/
package fiscal

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granularity time point
// =============================================================================

// Date is a calendar day. The zero value is not a valid date; optional dates
// are represented as *Date.
type Date struct {
	t time.Time
}

// NewDate constructs a Date at day granularity in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) Time() time.Time   { return d.t }
func (d Date) IsZero() bool      { return d.t.IsZero() }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// =============================================================================
// FISCAL YEAR - April 5 .. March 5, labeled "start-end"
// =============================================================================

// Year is a fiscal year identified by the calendar year it starts in.
type Year struct {
	Start int
}

// YearOf returns the fiscal year containing the given date. Dates before
// April 5 belong to the fiscal year that started the previous calendar year.
func YearOf(d Date) Year {
	start := d.Year()
	if d.Month() < time.April || (d.Month() == time.April && d.Day() < 5) {
		start--
	}
	return Year{Start: start}
}

// Label returns the fiscal year label, e.g. "2025-2026".
func (y Year) Label() string {
	return fmt.Sprintf("%d-%d", y.Start, y.Start+1)
}

// Bounds returns the inclusive first and last days of the fiscal year:
// April 5 of the start year through March 5 of the following year.
func (y Year) Bounds() (Date, Date) {
	return NewDate(y.Start, time.April, 5), NewDate(y.Start+1, time.March, 5)
}

// Contains reports whether the date falls inside the fiscal year. Both
// boundary days count as inside.
func (y Year) Contains(d Date) bool {
	start, end := y.Bounds()
	return d.AfterOrEqual(start) && d.BeforeOrEqual(end)
}

// PenaltyCutoff returns March 3 of the fiscal year's ending calendar year.
// A remaining balance is penalized only strictly after this date; on the
// cutoff day itself it is still pending.
func (y Year) PenaltyCutoff() Date {
	return NewDate(y.Start+1, time.March, 3)
}

// Next returns the following fiscal year.
func (y Year) Next() Year { return Year{Start: y.Start + 1} }
