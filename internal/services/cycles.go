package services

import (
	"slices"
	"time"

	"github.com/terraincognita07/ovumcy-insights/internal/models"
)

// newCycleGapDays is the number of non-bleeding days that separates two
// periods; a shorter gap continues the current period.
const newCycleGapDays = 5

// DetectCycleStarts returns the first day of every period found in the logs,
// oldest first.
func DetectCycleStarts(logs []models.DailyLog) []time.Time {
	periodDays := sortedPeriodDays(logs)
	starts := make([]time.Time, 0)
	for i, day := range periodDays {
		if i == 0 || gapDays(periodDays[i-1], day) >= newCycleGapDays {
			starts = append(starts, day)
		}
	}
	return starts
}

// PeriodLengths counts the unbroken run of bleeding days from each detected
// start. Spotting after a short break is not counted.
func PeriodLengths(logs []models.DailyLog) []int {
	periodDays := sortedPeriodDays(logs)
	lengths := make([]int, 0)
	interrupted := false
	for i, day := range periodDays {
		switch {
		case i == 0 || gapDays(periodDays[i-1], day) >= newCycleGapDays:
			lengths = append(lengths, 1)
			interrupted = false
		case gapDays(periodDays[i-1], day) == 0 && !interrupted:
			lengths[len(lengths)-1]++
		default:
			interrupted = true
		}
	}
	return lengths
}

// ObservedPeriodLength is the median of the logged period lengths, or zero
// when nothing was logged.
func ObservedPeriodLength(logs []models.DailyLog) int {
	return medianInt(PeriodLengths(logs))
}

func sortedPeriodDays(logs []models.DailyLog) []time.Time {
	days := make([]time.Time, 0, len(logs))
	for _, log := range logs {
		if log.IsPeriod {
			days = append(days, CalendarDay(log.Date, time.UTC))
		}
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	return slices.CompactFunc(days, func(a, b time.Time) bool { return a.Equal(b) })
}

func gapDays(previous, current time.Time) int {
	return int(current.Sub(previous).Hours()/24) - 1
}

func medianInt(values []int) int {
	if len(values) == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return int(float64(sorted[mid-1]+sorted[mid])/2 + 0.5)
}
