package eastmoney

import (
	"fmt"
	"time"
)

// DateLayout is the --date format.
const DateLayout = "2006-01-02"

// TargetText is the link label of the evening summary for date, e.g.
// "3月15日晚间央视新闻联播要闻集锦". Month and day are not zero padded.
func TargetText(date time.Time) string {
	return fmt.Sprintf("%d月%d日晚间央视新闻联播要闻集锦", int(date.Month()), date.Day())
}

// ParseDate parses a YYYY-MM-DD date in the local time zone. An empty string
// means today.
func ParseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	date, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return date, nil
}
