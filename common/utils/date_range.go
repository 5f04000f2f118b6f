package utils

import (
	"strings"
	"time"

	"github.com/Laisky/errors/v2"

	"github.com/songquanpeng/finlogs/common/helper"
)

// DefaultRangeLookahead extends the default end bound past now so records written
// while the view is open still fall inside the range.
const DefaultRangeLookahead = time.Hour

// ResolveDateRange turns the two date-range form values into inclusive unix second bounds.
// A blank start defaults to midnight today in loc, a blank end to now plus DefaultRangeLookahead.
func ResolveDateRange(startStr, endStr string, now time.Time, loc *time.Location) (int64, int64, error) {
	start := helper.TodayStart(now, loc)
	end := now.Add(DefaultRangeLookahead)

	if s := strings.TrimSpace(startStr); s != "" {
		t, err := helper.ParseDateTime(s, loc)
		if err != nil {
			return 0, 0, errors.Wrap(err, "invalid start time")
		}
		start = t
	}
	if s := strings.TrimSpace(endStr); s != "" {
		t, err := helper.ParseDateTime(s, loc)
		if err != nil {
			return 0, 0, errors.Wrap(err, "invalid end time")
		}
		end = t
	}

	if end.Before(start) {
		return 0, 0, errors.New("start time must not be after end time")
	}

	return start.Unix(), end.Unix(), nil
}
