package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
)

// Period is the closed interval [Start, End].
type Period struct {
	Start time.Time
	End   time.Time
}

func NewPeriod(start, end time.Time) (Period, error) {
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: end %s before start %s", common.ErrInvalidPeriod,
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Period{Start: start, End: end}, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// closing turns the exclusive upper bound next into the last instant of the period.
func closing(start, next time.Time) Period {
	return Period{Start: start, End: next.Add(-time.Nanosecond)}
}

func Daily(t time.Time) Period {
	s := dayStart(t)
	return closing(s, s.AddDate(0, 0, 1))
}

// Weekly returns the Monday-to-Sunday week containing t.
func Weekly(t time.Time) Period {
	s := dayStart(t)
	offset := (int(s.Weekday()) + 6) % 7
	s = s.AddDate(0, 0, -offset)
	return closing(s, s.AddDate(0, 0, 7))
}

func Monthly(t time.Time) Period {
	s := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return closing(s, s.AddDate(0, 1, 0))
}

func Yearly(t time.Time) Period {
	s := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return closing(s, s.AddDate(1, 0, 0))
}

// PeriodFor builds a period of the named granularity around t.
func PeriodFor(granularity string, t time.Time) (Period, error) {
	switch granularity {
	case "day", "daily":
		return Daily(t), nil
	case "week", "weekly":
		return Weekly(t), nil
	case "month", "monthly", "":
		return Monthly(t), nil
	case "year", "yearly":
		return Yearly(t), nil
	}
	return Period{}, fmt.Errorf("%w: unknown granularity %q", common.ErrInvalidPeriod, granularity)
}

// Contains reports whether t lies within the period, both ends included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

func (p Period) String() string {
	return p.Start.Format("2006-01-02") + ".." + p.End.Format("2006-01-02")
}
