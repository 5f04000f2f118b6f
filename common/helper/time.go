package helper

import (
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
)

// DateTimeLayout is the display and input layout for local date-times.
const DateTimeLayout = "2006-01-02 15:04:05"

// TodayStart returns midnight of now's day in loc.
func TodayStart(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// Timestamp2String renders a unix second timestamp as "YYYY-MM-DD HH:mm:ss" in loc.
func Timestamp2String(ts int64, loc *time.Location) string {
	return time.Unix(ts, 0).In(loc).Format(DateTimeLayout)
}

var dateTimeLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime parses a user supplied date-time. Layouts without a zone are read in loc.
func ParseDateTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty date-time")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized date-time %q, expected %s", raw, DateTimeLayout)
}

// FileTimestamp renders t for use inside file names, e.g. "2024-05-01_13_04_05".
func FileTimestamp(t time.Time) string {
	return strings.NewReplacer(":", "_", " ", "_").Replace(t.Format(DateTimeLayout))
}
