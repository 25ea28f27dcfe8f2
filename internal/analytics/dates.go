package analytics

import "time"

const dayLayout = "2006-01-02"

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func addDays(t time.Time, days int) time.Time {
	return dateOnly(t).AddDate(0, 0, days)
}

// daysBetween counts calendar days from a to b; negative when b precedes a.
func daysBetween(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}

func sameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

func betweenInclusive(day, start, end time.Time) bool {
	day = dateOnly(day)
	return !day.Before(dateOnly(start)) && !day.After(dateOnly(end))
}
