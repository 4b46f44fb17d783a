package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a civil calendar date with no time-of-day component.
// Values are anchored at local midnight so that calendar comparisons
// ("is the due date after today?") never shift across a day boundary
// the way UTC-parsed timestamps do.
type Date struct {
	t time.Time
}

// NewDate builds a Date for the given calendar day in the local zone.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// DateOf truncates t to its calendar day in the local zone.
func DateOf(t time.Time) Date {
	y, m, d := t.In(time.Local).Date()
	return NewDate(y, m, d)
}

// Today returns the current calendar day in the local zone.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string as a local calendar day.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, s)
	}
	return Date{t: t}, nil
}

// ParseDateOrNil parses a YYYY-MM-DD string, returning nil for empty or
// unparseable input. Callers that treat a bad date as "absent" use this;
// validation paths use ParseDate.
func ParseDateOrNil(s string) *Date {
	if s == "" {
		return nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Year() int        { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int         { return d.t.Day() }

// Time returns the date anchored at local midnight.
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string { return d.t.Format(DateLayout) }

func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// AddDays returns the date n calendar days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.t.AddDate(0, 0, n))
}

// AddMonths returns the date n calendar months later. Overflowing days
// normalize per time.AddDate (Jan 31 + 1 month = Mar 2 or 3).
func (d Date) AddMonths(n int) Date {
	return DateOf(d.t.AddDate(0, n, 0))
}

// DaysUntil returns the whole-day difference from d to other.
// Positive when other is later than d. Rounding absorbs the odd-length
// days a DST transition produces.
func (d Date) DaysUntil(other Date) int {
	return int(math.Round(other.t.Sub(d.t).Hours() / 24))
}

// YearMonth returns the date formatted as YYYY-MM.
func (d Date) YearMonth() string { return d.t.Format("2006-01") }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
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
