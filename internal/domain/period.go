package domain

import (
	"fmt"
	"time"
)

// PeriodAll selects every record regardless of issue date.
const PeriodAll = "all"

// Period narrows financial queries to a single calendar month, or to
// everything when it is the all-period. Filtering is always on issue
// dates; due and payment dates never participate.
type Period struct {
	all   bool
	year  int
	month time.Month
}

// AllPeriod returns the unfiltered period.
func AllPeriod() Period { return Period{all: true} }

// MonthPeriod returns the period covering a single calendar month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{year: year, month: month}
}

// ParsePeriod accepts "all" or "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	if s == "" || s == PeriodAll {
		return AllPeriod(), nil
	}
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return Period{}, fmt.Errorf("%w: invalid period %q", ErrInvalidInput, s)
	}
	return MonthPeriod(t.Year(), t.Month()), nil
}

// IsAll reports whether the period selects everything.
func (p Period) IsAll() bool { return p.all }

// Contains reports whether an issue date falls inside the period.
// A nil issue date matches only the all-period.
func (p Period) Contains(issueDate *Date) bool {
	if p.all {
		return true
	}
	if issueDate == nil {
		return false
	}
	return issueDate.Year() == p.year && issueDate.Month() == p.month
}

// Bounds returns the first and last day of the period's month.
// Only valid for month periods.
func (p Period) Bounds() (Date, Date) {
	start := NewDate(p.year, p.month, 1)
	end := NewDate(p.year, p.month+1, 1).AddDays(-1)
	return start, end
}

func (p Period) String() string {
	if p.all {
		return PeriodAll
	}
	return fmt.Sprintf("%04d-%02d", p.year, p.month)
}
