package utils

import (
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}

// DayWindow returns [00:00:00.000, 23:59:59.999] of the day holding t,
// in server-local time. Reports use it as an inclusive range.
func DayWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(time.Local)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// CeilMinutes converts an elapsed duration to whole minutes, partial
// minutes counting as a full minute.
func CeilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	ms := d.Milliseconds()
	return int((ms + 59_999) / 60_000)
}
