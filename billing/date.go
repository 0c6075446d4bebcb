package billing

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// DATE - Calendar date, day granularity
// =============================================================================

// Date is a calendar date with no time component. All comparisons and
// arithmetic operate on the normalized day (UTC midnight), so two Dates
// built from different clock times on the same day compare equal.
//
// There is deliberately no timezone handling: lease starts and payment
// dates are local calendar dates.
type Date struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date. Callers that need determinism
// inject their own reference date instead of calling this.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// MustParseDate is a test/fixture helper. Panics on malformed input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Comparison (strict, date-only)
func (d Date) Before(other Date) bool { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool  { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool  { return d.normalize().Equal(other.normalize()) }

// Arithmetic
//
// AddMonths follows time.AddDate overflow normalization: Jan 31 + 1 month
// rolls into March. The billing calculator depends on this exact behavior.
func (d Date) AddMonths(n int) Date { return Date{Time: d.normalize().AddDate(0, n, 0)} }
func (d Date) AddDays(n int) Date   { return Date{Time: d.normalize().AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

// SameMonth reports whether both dates fall in the same (month, year).
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

// MonthKey returns the "M/YYYY" label used by the income report.
func (d Date) MonthKey() string {
	return fmt.Sprintf("%d/%d", int(d.Month()), d.Year())
}

func (d Date) String() string { return d.normalize().Format(dateLayout) }

// JSON encoding is the bare "YYYY-MM-DD" string, matching the snapshot
// format and the HTML date-input format the data originated from.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// PERIOD ARITHMETIC
// =============================================================================

// ElapsedPeriods counts whole billing periods (calendar months) between a
// lease start date and a reference date.
//
// The count uses month arithmetic only: day-of-month is ignored, so a
// tenant starting on the 31st is counted identically to one starting on
// the 1st. This is intentional and must not be "fixed": the overdue
// determination for every tenant whose start day is not the 1st depends
// on it (the day still participates when the due date is compared against
// a payment date).
//
// A future-dated start yields a negative or zero count. No clamping.
func ElapsedPeriods(start, reference Date) int {
	return (reference.Year()-start.Year())*12 + int(reference.Month()) - int(start.Month())
}
