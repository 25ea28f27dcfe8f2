package analytics

import (
	"fmt"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

const (
	DefaultCycleLength     = 28
	DefaultLutealPhaseDays = 14
	DefaultPeriodLength    = 5

	recentCycleWindow = 12

	typicalCycleMin = 21
	typicalCycleMax = 45

	predictableCycleMin = 21
	predictableCycleMax = 90

	lutealMin = 10
	lutealMax = 18

	minPeriodLength    = 1
	maxPeriodLength    = 14
	longPeriodDays     = 7
	maxLoggingLookback = 365

	ghostCycleLowerRatio = 1.7
	ghostCycleUpperRatio = 2.3
)

var recencyWeights = []float64{0.2, 0.3, 0.5}

// FertileWindowBounds is the basic O-5..O+1 window without probabilities.
type FertileWindowBounds struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Peak  time.Time `json:"peak"`
}

// CycleLength returns the days between two consecutive period starts.
func CycleLength(startA, startB time.Time) (int, []Warning, error) {
	days := daysBetween(startA, startB)
	if days <= 0 {
		return 0, nil, &OrderingError{
			Op:     "cycle length",
			Detail: fmt.Sprintf("start %s must be after %s", dateOnly(startB).Format(dayLayout), dateOnly(startA).Format(dayLayout)),
		}
	}

	var warnings []Warning
	if days < typicalCycleMin || days > typicalCycleMax {
		warnings = append(warnings, Warning{
			Code:    WarningCycleLengthOutOfRange,
			Message: fmt.Sprintf("cycle of %d days is outside the typical %d-%d day range", days, typicalCycleMin, typicalCycleMax),
		})
	}
	return days, warnings, nil
}

// CycleLengthsFromStarts sorts period starts and returns the gaps between them.
// Duplicate starts are skipped.
func CycleLengthsFromStarts(starts []time.Time) ([]int, []Warning) {
	if len(starts) < 2 {
		return nil, nil
	}

	sorted := make([]time.Time, 0, len(starts))
	for _, start := range starts {
		sorted = append(sorted, dateOnly(start))
	}
	slices.SortFunc(sorted, func(a, b time.Time) int { return a.Compare(b) })
	sorted = slices.CompactFunc(sorted, func(a, b time.Time) bool { return a.Equal(b) })

	lengths := make([]int, 0, len(sorted)-1)
	var warnings []Warning
	for i := 1; i < len(sorted); i++ {
		length, lengthWarnings, err := CycleLength(sorted[i-1], sorted[i])
		if err != nil {
			continue
		}
		lengths = append(lengths, length)
		warnings = append(warnings, lengthWarnings...)
	}
	return lengths, warnings
}

// AverageCycleLength is the rounded mean of the most recent 12 cycles.
func AverageCycleLength(lengths []int) int {
	recent := tailInts(lengths, recentCycleWindow)
	if len(recent) == 0 {
		return DefaultCycleLength
	}
	return int(math.Round(meanInts(recent)))
}

// MedianCycleLength is the rounded median of the most recent 12 cycles. It is
// the preferred predictor: a single 60-day cycle moves the mean, not the median.
func MedianCycleLength(lengths []int) int {
	recent := tailInts(lengths, recentCycleWindow)
	if len(recent) == 0 {
		return DefaultCycleLength
	}
	return int(math.Round(medianInts(recent)))
}

// WeightedAverageCycleLength weights the last three cycles 0.2/0.3/0.5 from
// oldest to newest and keeps the fractional part so a trend stays visible.
func WeightedAverageCycleLength(lengths []int) float64 {
	if len(lengths) < len(recencyWeights) {
		return float64(MedianCycleLength(lengths))
	}
	recent := tailInts(lengths, len(recencyWeights))
	return stat.Mean(toFloats(recent), recencyWeights)
}

func PredictNextPeriodStart(lastStart time.Time, avgLength float64) (time.Time, error) {
	if math.IsNaN(avgLength) || avgLength < predictableCycleMin || avgLength > predictableCycleMax {
		return time.Time{}, &RangeError{
			Op:    "predict next period",
			Value: avgLength,
			Min:   predictableCycleMin,
			Max:   predictableCycleMax,
		}
	}
	return addDays(lastStart, int(math.Round(avgLength))), nil
}

// CalculateOvulationDate counts the luteal phase back from the predicted period
// start. Zero selects the default; values outside 10-18 fall back to it with a warning.
func CalculateOvulationDate(predictedStart time.Time, lutealLength int) (time.Time, []Warning) {
	var warnings []Warning
	switch {
	case lutealLength == 0:
		lutealLength = DefaultLutealPhaseDays
	case lutealLength < lutealMin || lutealLength > lutealMax:
		warnings = append(warnings, Warning{
			Code:    WarningLutealLengthClamped,
			Message: fmt.Sprintf("luteal phase of %d days is outside %d-%d, using %d", lutealLength, lutealMin, lutealMax, DefaultLutealPhaseDays),
		})
		lutealLength = DefaultLutealPhaseDays
	}
	return addDays(predictedStart, -lutealLength), warnings
}

func CalculateFertileWindow(ovulationDate time.Time) FertileWindowBounds {
	return FertileWindowBounds{
		Start: addDays(ovulationDate, fertileWindowStartOffset),
		End:   addDays(ovulationDate, fertileWindowEndOffset),
		Peak:  addDays(ovulationDate, -2),
	}
}

// PeriodDuration counts bleeding days inclusively.
func PeriodDuration(start, end time.Time) (int, []Warning, error) {
	days := daysBetween(start, end)
	if days < 0 {
		return 0, nil, &OrderingError{
			Op:     "period duration",
			Detail: fmt.Sprintf("end %s precedes start %s", dateOnly(end).Format(dayLayout), dateOnly(start).Format(dayLayout)),
		}
	}

	duration := days + 1
	var warnings []Warning
	if duration > longPeriodDays {
		warnings = append(warnings, Warning{
			Code:    WarningLongPeriod,
			Message: fmt.Sprintf("bleeding for %d days may indicate heavy menstrual bleeding", duration),
		})
	}
	return duration, warnings, nil
}

// IsValidPeriodLength accepts a bleeding duration of 1-14 days.
func IsValidPeriodLength(days int) bool {
	return days >= minPeriodLength && days <= maxPeriodLength
}

func CycleDay(periodStart, asOf time.Time) (int, error) {
	days := daysBetween(periodStart, asOf)
	if days < 0 {
		return 0, &OrderingError{
			Op:     "cycle day",
			Detail: fmt.Sprintf("%s precedes period start %s", dateOnly(asOf).Format(dayLayout), dateOnly(periodStart).Format(dayLayout)),
		}
	}
	return days + 1, nil
}

// IsValidLoggingDate accepts today and up to 365 calendar days back.
func IsValidLoggingDate(date, referenceDate time.Time) bool {
	age := daysBetween(date, referenceDate)
	return age >= 0 && age <= maxLoggingLookback
}

// DetectGhostCycle reports whether an observed length looks like two cycles
// with a missed period start between them.
func DetectGhostCycle(observedLength int, averageLength float64) bool {
	if observedLength <= 0 || averageLength <= 0 {
		return false
	}
	ratio := float64(observedLength) / averageLength
	return ratio >= ghostCycleLowerRatio && ratio <= ghostCycleUpperRatio
}

func GenerateCycleDays(start time.Time, length int) []time.Time {
	if length <= 0 {
		return nil
	}
	days := make([]time.Time, 0, length)
	for offset := 0; offset < length; offset++ {
		days = append(days, addDays(start, offset))
	}
	return days
}

func tailInts(values []int, n int) []int {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func toFloats(values []int) []float64 {
	floats := make([]float64, len(values))
	for i, value := range values {
		floats[i] = float64(value)
	}
	return floats
}

func meanInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(toFloats(values), nil)
}

func medianInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}
