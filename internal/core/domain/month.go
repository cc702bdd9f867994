package domain

import (
	"fmt"
	"time"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
)

// ReferenceMonth is a calendar month in "YYYY-MM" form. It is the unit every tax
// computation is keyed by.
type ReferenceMonth string

// ParseReferenceMonth validates and normalizes a "YYYY-MM" string.
func ParseReferenceMonth(s string) (ReferenceMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return "", fmt.Errorf("%w: reference month %q must be YYYY-MM", apperrors.ErrValidation, s)
	}
	return ReferenceMonth(t.Format("2006-01")), nil
}

// Time returns the first instant of the month in UTC.
func (r ReferenceMonth) Time() time.Time {
	t, _ := time.Parse("2006-01", string(r))
	return t
}

// End returns the first instant of the following month in UTC, so the month covers
// [Time, End).
func (r ReferenceMonth) End() time.Time {
	return r.Time().AddDate(0, 1, 0)
}

// Month returns the calendar month number (1-12).
func (r ReferenceMonth) Month() time.Month {
	return r.Time().Month()
}

// Year returns the calendar year.
func (r ReferenceMonth) Year() int {
	return r.Time().Year()
}

// IsQuarterEnd reports whether the month closes a calendar quarter (March, June,
// September, December).
func (r ReferenceMonth) IsQuarterEnd() bool {
	return int(r.Month())%3 == 0
}

// QuarterStart returns the first instant of the quarter containing the month.
func (r ReferenceMonth) QuarterStart() time.Time {
	t := r.Time()
	startMonth := ((int(t.Month())-1)/3)*3 + 1
	return time.Date(t.Year(), time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
}

func (r ReferenceMonth) String() string {
	return string(r)
}
