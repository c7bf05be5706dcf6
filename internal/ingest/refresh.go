package ingest

import "time"

// WeekStart returns Monday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// NeedsRefresh reports whether a catalog last updated at lastUpdated is
// older than the current week. An empty catalog always needs one.
func NeedsRefresh(lastUpdated, now time.Time) bool {
	if lastUpdated.IsZero() {
		return true
	}
	return lastUpdated.Before(WeekStart(now))
}
