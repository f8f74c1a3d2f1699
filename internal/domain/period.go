package domain

import (
	"fmt"
	"time"
)

// PeriodLayout is the wire format for report periods and date filters.
const PeriodLayout = "2006-01-02"

// PeriodFromTime truncates a point in time to the first day of its month,
// the canonical period value for monthly reports.
func PeriodFromTime(t time.Time) string {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format(PeriodLayout)
}

// PreviousPeriod returns the period immediately preceding the given one.
func PreviousPeriod(period string) (string, error) {
	t, err := time.Parse(PeriodLayout, period)
	if err != nil {
		return "", fmt.Errorf("invalid period %q: %w", period, err)
	}
	return PeriodFromTime(t.AddDate(0, -1, 0)), nil
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(PeriodLayout, s)
	return err == nil
}
