package services

import (
	"time"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
)

// monthlyDueDate returns dueDay of the month following the reference month, clamped to
// the following month's length.
func monthlyDueDate(month domain.ReferenceMonth, dueDay int) time.Time {
	next := month.End()
	last := daysInMonth(next.Year(), next.Month())
	day := dueDay
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(next.Year(), next.Month(), day, 0, 0, 0, 0, time.UTC)
}

// stepMonths moves date forward by the given number of months, clamping the day to the
// target month's length. time.AddDate would normalize Jan 31 + 1 month into March.
func stepMonths(date time.Time, months int) time.Time {
	year, m, day := date.Date()
	target := time.Date(year, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	last := daysInMonth(target.Year(), target.Month())
	if day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
}

// quarterlyDueDate returns the last business day of the month following the quarter
// end. Weekends only; public holidays are not modeled.
func quarterlyDueDate(month domain.ReferenceMonth) time.Time {
	next := month.End()
	return lastBusinessDay(next.Year(), next.Month())
}

func lastBusinessDay(year int, m time.Month) time.Time {
	day := time.Date(year, m, daysInMonth(year, m), 0, 0, 0, 0, time.UTC)
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

func daysInMonth(year int, m time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
