package domain

import (
	"fmt"
	"time"
)

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

// Period is a half-open time range [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod builds a Period, rejecting ranges whose end is not strictly
// after the start.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate checks that the period is non-empty.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidPeriod)
	}
	if !p.End.After(p.Start) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidPeriod)
	}
	return nil
}

// Contains reports whether t falls inside the period. The start is
// included and the end is excluded.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Key returns a stable string identifying the period, suitable for cache keys.
func (p Period) Key() string {
	return p.Start.UTC().Format(time.RFC3339) + "/" + p.End.UTC().Format(time.RFC3339)
}

// MonthPeriod returns the calendar month containing t, in t's location.
func MonthPeriod(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// CurrentMonth returns the calendar month containing now in the given location.
func CurrentMonth(now time.Time, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	return MonthPeriod(now.In(loc))
}

// ParseMonth parses a YYYY-MM string into the month it names, in loc.
func ParseMonth(value string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(monthLayout, value, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: month must be formatted as YYYY-MM", ErrInvalidPeriod)
	}
	return MonthPeriod(t), nil
}

// ParseDateRange parses YYYY-MM-DD start and end dates into a Period.
// The end date is exclusive.
func ParseDateRange(start, end string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	s, err := time.ParseInLocation(dateLayout, start, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: start must be formatted as YYYY-MM-DD", ErrInvalidPeriod)
	}
	e, err := time.ParseInLocation(dateLayout, end, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: end must be formatted as YYYY-MM-DD", ErrInvalidPeriod)
	}
	return NewPeriod(s, e)
}

// MonthLabel normalizes t to the first day of its calendar month at UTC
// midnight. Budgets are keyed by this label.
func MonthLabel(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// FormatMonth renders a month label as YYYY-MM.
func FormatMonth(label time.Time) string {
	return label.Format(monthLayout)
}

// MonthLabels returns the first and last labels of the calendar months that
// overlap the period, evaluated in the period's location. Callers load whole
// monthly budgets for this range; a partial month is not prorated.
func (p Period) MonthLabels() (first, last time.Time) {
	first = MonthLabel(p.Start)
	// The last instant inside the period decides the final month.
	last = MonthLabel(p.End.Add(-time.Nanosecond).In(p.Start.Location()))
	return first, last
}
