package timestamp

import "time"

// Format renders epoch milliseconds for list display relative to now.
// Zero renders as an empty string.
func Format(ms int64, now time.Time) string {
	if ms <= 0 {
		return ""
	}
	t := time.UnixMilli(ms).In(now.Location())
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return t.Format("15:04")
	case days == 1:
		return "Yesterday"
	case days < 7:
		return t.Format("Mon")
	default:
		return t.Format("02/01/06")
	}
}

// Clock renders epoch milliseconds as a message-thread time of day.
func Clock(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).Format("15:04")
}
