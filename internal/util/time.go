package util

import "time"

const (
	timestampLayout = "2006-01-02 15:04"
	dueLayout       = "Jan 02"
)

func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// FormatMillis renders epoch milliseconds in local time, e.g.
// "2026-03-04 09:30". Zero renders as "".
func FormatMillis(millis int64) string {
	if millis == 0 {
		return ""
	}
	return time.UnixMilli(millis).Format(timestampLayout)
}

// FormatDue renders a due date compactly for one-line card rows, e.g.
// "Mar 04".
func FormatDue(millis int64) string {
	if millis == 0 {
		return ""
	}
	return time.UnixMilli(millis).Format(dueLayout)
}
