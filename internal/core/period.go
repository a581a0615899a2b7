package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	PeriodToday  PeriodKind = "today"
	PeriodWeek   PeriodKind = "week"
	PeriodMonth  PeriodKind = "month"
	PeriodYear   PeriodKind = "year"
	PeriodCustom PeriodKind = "custom"
)

const (
	// WeekStartMonday is the ISO 8601 convention and the default. The source
	// of truth for the week boundary is this explicit setting, never the
	// ambient locale.
	WeekStartMonday WeekStart = "monday"
	WeekStartSunday WeekStart = "sunday"
)

type (
	// PeriodKind names a reporting window relative to a reference time.
	PeriodKind string

	// WeekStart pins the first day of the week for PeriodWeek.
	WeekStart string

	// Period selects the records that enter a report: either a named window
	// anchored at a reference time, or an explicit custom range.
	Period struct {
		Kind  PeriodKind
		Start time.Time // custom range only
		End   time.Time // custom range only
	}

	// DateRange is a resolved inclusive [Start, End] window.
	DateRange struct {
		Start time.Time
		End   time.Time
	}
)

var ErrInvalidPeriod = errors.New("invalid period")

// NamedPeriod builds a Period from its string name.
func NamedPeriod(name string) (Period, error) {
	switch PeriodKind(name) {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear:
		return Period{Kind: PeriodKind(name)}, nil
	default:
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, name)
	}
}

// CustomPeriod builds an explicit range period. Start must not be after end.
func CustomPeriod(start, end time.Time) (Period, error) {
	if start.IsZero() || end.IsZero() {
		return Period{}, fmt.Errorf("%w: zero bound", ErrInvalidPeriod)
	}
	if start.After(end) {
		return Period{}, fmt.Errorf("%w: start after end", ErrInvalidPeriod)
	}
	return Period{Kind: PeriodCustom, Start: start, End: end}, nil
}

// Resolve converts the period into an inclusive date range anchored at now.
// Named periods run from the start of the day/week/month/year containing
// now up to now itself, so resolution is a pure function of (period, now,
// weekStart).
func (p Period) Resolve(now time.Time, weekStart WeekStart) (DateRange, error) {
	loc := now.Location()
	switch p.Kind {
	case PeriodToday:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		return DateRange{Start: start, End: now}, nil
	case PeriodWeek:
		return DateRange{Start: startOfWeek(now, weekStart), End: now}, nil
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return DateRange{Start: start, End: now}, nil
	case PeriodYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return DateRange{Start: start, End: now}, nil
	case PeriodCustom:
		if p.Start.After(p.End) {
			return DateRange{}, fmt.Errorf("%w: start after end", ErrInvalidPeriod)
		}
		return DateRange{Start: p.Start, End: p.End}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, p.Kind)
	}
}

// Contains reports whether t falls within the inclusive range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// startOfWeek returns midnight of the first day of the week containing date.
func startOfWeek(date time.Time, weekStart WeekStart) time.Time {
	weekday := int(date.Weekday()) // Sunday == 0
	var back int
	if weekStart == WeekStartSunday {
		back = weekday
	} else {
		// Monday start: Sunday counts as day 7
		if weekday == 0 {
			weekday = 7
		}
		back = weekday - 1
	}
	return time.Date(date.Year(), date.Month(), date.Day()-back, 0, 0, 0, 0, date.Location())
}
