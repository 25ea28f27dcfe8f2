package services

import (
	"strings"
	"time"

	"github.com/terraincognita07/ovumcy-insights/internal/models"
)

const dayLayout = "2006-01-02"

// CalendarDay returns the calendar date of value as seen in location,
// normalised to UTC midnight. Every stored date goes through it.
func CalendarDay(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	year, month, day := value.In(location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDay reads a YYYY-MM-DD date.
func ParseDay(raw string) (time.Time, error) {
	return time.ParseInLocation(dayLayout, strings.TrimSpace(raw), time.UTC)
}

func DayRange(value time.Time) (time.Time, time.Time) {
	start := CalendarDay(value, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func DayHasData(entry models.DailyLog) bool {
	if entry.IsPeriod {
		return true
	}
	if strings.TrimSpace(entry.Notes) != "" {
		return true
	}
	return strings.TrimSpace(entry.Flow) != "" && entry.Flow != models.FlowNone
}
