package todo

import (
	"time"

	todoerrors "github.com/randalmurphal/todo/internal/errors"
)

// Input layouts accepted for --date and --time.
const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	shortTimeLayout = "15:04"
)

// ParseYMDHMS parses a YYYY-MM-DD date and an HH:MM:SS (or HH:MM) time into
// a single UTC timestamp.
func ParseYMDHMS(date, clock string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, todoerrors.ErrInvalidDate(date, err)
	}
	c, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC), nil
}

func parseClock(clock string) (time.Time, error) {
	c, err := time.ParseInLocation(TimeLayout, clock, time.UTC)
	if err == nil {
		return c, nil
	}
	if short, shortErr := time.ParseInLocation(shortTimeLayout, clock, time.UTC); shortErr == nil {
		return short, nil
	}
	return time.Time{}, todoerrors.ErrInvalidTime(clock, err)
}

// Combine merges an optional date and an optional time into one timestamp.
//
//	date  time  result
//	yes   yes   both parsed
//	yes   no    date at 00:00:00
//	no    yes   today's (UTC) date at time
//	no    no    now
//
// It never reports absence; callers decide whether the result is stored as
// a start date, a start time, or both.
func Combine(date, clock *string, now time.Time) (time.Time, error) {
	now = now.UTC()
	switch {
	case date != nil && clock != nil:
		return ParseYMDHMS(*date, *clock)
	case date != nil:
		return ParseYMDHMS(*date, "00:00:00")
	case clock != nil:
		return ParseYMDHMS(now.Format(DateLayout), *clock)
	default:
		return now, nil
	}
}
