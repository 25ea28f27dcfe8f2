package analytics

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

type MeasurementSource string

const (
	SourceOral     MeasurementSource = "oral"
	SourceVaginal  MeasurementSource = "vaginal"
	SourceRectal   MeasurementSource = "rectal"
	SourceWearable MeasurementSource = "wearable"
)

func ParseMeasurementSource(raw string) (MeasurementSource, bool) {
	switch source := MeasurementSource(strings.ToLower(strings.TrimSpace(raw))); source {
	case SourceOral, SourceVaginal, SourceRectal, SourceWearable:
		return source, true
	case "":
		return SourceOral, true
	default:
		return "", false
	}
}

// IsWearable reports skin-temperature sensors, which read 2-3 °C below core.
func (source MeasurementSource) IsWearable() bool {
	return source == SourceWearable
}

type ThermalPattern string

const (
	PatternBiphasic         ThermalPattern = "BIPHASIC"
	PatternMonophasic       ThermalPattern = "MONOPHASIC"
	PatternAtypical         ThermalPattern = "ATYPICAL"
	PatternInsufficientData ThermalPattern = "INSUFFICIENT_DATA"
)

const (
	minThermalReadings = 10
	baselineWindow     = 6
	minBaselinePoints  = 4
	minPhaseReadings   = 3

	coverlineMargin = 0.05
	confirmingRise  = 0.2

	biphasicShift       = 0.2
	atypicalShift       = 0.1
	highConfidenceShift = 0.3
	minLutealDays       = 10
	mediumLutealDays    = 7
	maxMediumAbnormal   = 2

	maxConsistentGapDays = 3

	// Baseline readings above these are treated as fever and skipped.
	coreFeverThreshold     = 37.5
	wearableFeverThreshold = 35.5

	coreValidMin     = 35.0
	coreValidMax     = 38.0
	wearableValidMin = 33.0
	wearableValidMax = 36.0

	temperatureEpsilon = 1e-9
)

// TemperatureReading is one sample. An empty Source means the source passed
// to AnalyzeTemperatures.
type TemperatureReading struct {
	Date    time.Time         `json:"date"`
	Celsius float64           `json:"celsius"`
	Source  MeasurementSource `json:"source,omitempty"`
}

type QualityFlags struct {
	SufficientData        bool      `json:"sufficient_data"`
	ConsistentMeasurement bool      `json:"consistent_measurement"`
	ClearShift            bool      `json:"clear_shift"`
	AbnormalValues        []Warning `json:"abnormal_values,omitempty"`
}

type ThermalAnalysis struct {
	Pattern            ThermalPattern    `json:"pattern"`
	Source             MeasurementSource `json:"source"`
	ReadingCount       int               `json:"reading_count"`
	ThermalShiftDate   *time.Time        `json:"thermal_shift_date,omitempty"`
	EstimatedOvulation *time.Time        `json:"estimated_ovulation,omitempty"`
	ShiftMagnitude     float64           `json:"shift_magnitude"`
	Coverline          float64           `json:"coverline"`
	FollicularAverage  float64           `json:"follicular_average"`
	LutealAverage      float64           `json:"luteal_average"`
	LutealLength       int               `json:"luteal_length"`
	Confidence         Confidence        `json:"confidence"`
	Quality            QualityFlags      `json:"quality"`
	Warnings           []Warning         `json:"warnings,omitempty"`
}

// IsValidBBT is the hard plausibility check for a single reading. Its upper
// bound sits above the fever threshold used when building baselines.
func IsValidBBT(celsius float64, source MeasurementSource) bool {
	if math.IsNaN(celsius) || math.IsInf(celsius, 0) {
		return false
	}
	low, high := validTemperatureRange(source)
	return celsius >= low && celsius <= high
}

func CelsiusFromFahrenheit(fahrenheit float64) float64 {
	return (fahrenheit - 32) * 5 / 9
}

// AnalyzeTemperatures applies the 3-over-6 coverline rule: a shift is the
// first day whose reading and the next one sit above the highest of the six
// previous readings, with the third at least 0.2 °C above it.
//
// Readings from different sources are never compared: only the most used
// source is analysed and the series is marked inconsistent.
func AnalyzeTemperatures(readings []TemperatureReading, source MeasurementSource) ThermalAnalysis {
	if source == "" {
		source = SourceOral
	}
	usable, warnings := usableReadings(readings, source)
	valid, source, otherSources := dominantSourceReadings(usable, source)
	slices.SortFunc(valid, compareReadings)
	if otherSources > 0 {
		warnings = append(warnings, Warning{
			Code:    WarningMixedSources,
			Message: fmt.Sprintf("%d reading(s) from another measurement source were left out, using %s readings", otherSources, source),
		})
	}

	analysis := ThermalAnalysis{
		Pattern:      PatternInsufficientData,
		Source:       source,
		ReadingCount: len(valid),
		Confidence:   ConfidenceLow,
		Warnings:     warnings,
		Quality: QualityFlags{
			ConsistentMeasurement: otherSources == 0 && consistentSpacing(valid),
			AbnormalValues:        abnormalReadings(valid, source),
		},
	}
	if len(valid) < minThermalReadings {
		return analysis
	}
	analysis.Quality.SufficientData = true

	if feverCount := countAbove(valid, feverThreshold(source)); feverCount > 0 {
		analysis.Warnings = append(analysis.Warnings, Warning{
			Code:    WarningFeverBaseline,
			Message: fmt.Sprintf("%d reading(s) above %.1f °C were left out of baselines", feverCount, feverThreshold(source)),
		})
	}

	shiftIndex, maxBaseline, found := findThermalShift(valid, source)
	if !found {
		analysis.Pattern = PatternMonophasic
		analysis.FollicularAverage = roundTemperature(meanCelsius(valid))
		return analysis
	}

	follicular, luteal := valid[:shiftIndex], valid[shiftIndex:]
	shiftDate := dateOnly(luteal[0].Date)
	analysis.ThermalShiftDate = &shiftDate
	analysis.Coverline = roundTemperature(maxBaseline + coverlineMargin)
	if len(follicular) < minPhaseReadings || len(luteal) < minPhaseReadings {
		analysis.Pattern = PatternAtypical
		return analysis
	}

	analysis.FollicularAverage = roundTemperature(meanCelsius(follicular))
	analysis.LutealAverage = roundTemperature(meanCelsius(luteal))
	analysis.ShiftMagnitude = roundTemperature(meanCelsius(luteal) - meanCelsius(follicular))
	analysis.LutealLength = daysBetween(luteal[0].Date, luteal[len(luteal)-1].Date) + 1
	analysis.Pattern = classifyThermalPattern(analysis.ShiftMagnitude, analysis.LutealLength)
	analysis.Quality.ClearShift = analysis.ShiftMagnitude >= biphasicShift

	if analysis.Pattern != PatternMonophasic {
		ovulation := addDays(shiftDate, -1)
		analysis.EstimatedOvulation = &ovulation
	}
	analysis.Confidence = thermalConfidence(analysis.ShiftMagnitude, analysis.LutealLength, len(analysis.Quality.AbnormalValues))
	return analysis
}

func usableReadings(readings []TemperatureReading, fallback MeasurementSource) ([]TemperatureReading, []Warning) {
	valid := make([]TemperatureReading, 0, len(readings))
	discarded := 0
	for _, reading := range readings {
		if reading.Date.IsZero() || math.IsNaN(reading.Celsius) || math.IsInf(reading.Celsius, 0) {
			discarded++
			continue
		}
		source := reading.Source
		if source == "" {
			source = fallback
		}
		valid = append(valid, TemperatureReading{Date: dateOnly(reading.Date), Celsius: reading.Celsius, Source: source})
	}
	if discarded == 0 {
		return valid, nil
	}
	return valid, []Warning{{
		Code:    WarningReadingDiscarded,
		Message: fmt.Sprintf("%d reading(s) with a missing date or non-numeric temperature were discarded", discarded),
	}}
}

// dominantSourceReadings keeps the readings of the most used source. Ties go
// to preferred, then to the alphabetically first source.
func dominantSourceReadings(readings []TemperatureReading, preferred MeasurementSource) ([]TemperatureReading, MeasurementSource, int) {
	counts := make(map[MeasurementSource]int)
	for _, reading := range readings {
		counts[reading.Source]++
	}
	if len(counts) < 2 {
		for source := range counts {
			preferred = source
		}
		return readings, preferred, 0
	}

	chosen, best := preferred, counts[preferred]
	for _, source := range slices.Sorted(maps.Keys(counts)) {
		if counts[source] > best {
			chosen, best = source, counts[source]
		}
	}

	kept := make([]TemperatureReading, 0, best)
	for _, reading := range readings {
		if reading.Source == chosen {
			kept = append(kept, reading)
		}
	}
	return kept, chosen, len(readings) - len(kept)
}

func compareReadings(a, b TemperatureReading) int {
	if byDate := a.Date.Compare(b.Date); byDate != 0 {
		return byDate
	}
	switch {
	case a.Celsius < b.Celsius:
		return -1
	case a.Celsius > b.Celsius:
		return 1
	default:
		return 0
	}
}

func findThermalShift(readings []TemperatureReading, source MeasurementSource) (int, float64, bool) {
	fever := feverThreshold(source)
	for i := baselineWindow; i+2 < len(readings); i++ {
		maxBaseline, points := math.Inf(-1), 0
		for _, reading := range readings[i-baselineWindow : i] {
			if reading.Celsius > fever {
				continue
			}
			points++
			maxBaseline = math.Max(maxBaseline, reading.Celsius)
		}
		if points < minBaselinePoints {
			continue
		}

		if readings[i].Celsius > maxBaseline &&
			readings[i+1].Celsius > maxBaseline &&
			readings[i+2].Celsius >= maxBaseline+confirmingRise-temperatureEpsilon {
			return i, maxBaseline, true
		}
	}
	return 0, 0, false
}

func classifyThermalPattern(shift float64, lutealLength int) ThermalPattern {
	switch {
	case shift >= biphasicShift && lutealLength >= minLutealDays:
		return PatternBiphasic
	case shift >= atypicalShift:
		return PatternAtypical
	default:
		return PatternMonophasic
	}
}

func thermalConfidence(shift float64, lutealLength int, abnormal int) Confidence {
	switch {
	case shift >= highConfidenceShift && lutealLength >= minLutealDays && abnormal == 0:
		return ConfidenceHigh
	case shift >= biphasicShift && lutealLength >= mediumLutealDays && abnormal <= maxMediumAbnormal:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func abnormalReadings(readings []TemperatureReading, source MeasurementSource) []Warning {
	low, high := validTemperatureRange(source)
	var warnings []Warning
	for _, reading := range readings {
		if IsValidBBT(reading.Celsius, source) {
			continue
		}
		warnings = append(warnings, Warning{
			Code:    WarningAbnormalTemperature,
			Message: fmt.Sprintf("%.2f °C on %s is outside %.1f-%.1f °C", reading.Celsius, reading.Date.Format(dayLayout), low, high),
		})
	}
	return warnings
}

func consistentSpacing(readings []TemperatureReading) bool {
	if len(readings) < 2 {
		return false
	}
	for i := 1; i < len(readings); i++ {
		if daysBetween(readings[i-1].Date, readings[i].Date) > maxConsistentGapDays {
			return false
		}
	}
	return true
}

func validTemperatureRange(source MeasurementSource) (float64, float64) {
	if source.IsWearable() {
		return wearableValidMin, wearableValidMax
	}
	return coreValidMin, coreValidMax
}

func feverThreshold(source MeasurementSource) float64 {
	if source.IsWearable() {
		return wearableFeverThreshold
	}
	return coreFeverThreshold
}

func countAbove(readings []TemperatureReading, threshold float64) int {
	count := 0
	for _, reading := range readings {
		if reading.Celsius > threshold {
			count++
		}
	}
	return count
}

func meanCelsius(readings []TemperatureReading) float64 {
	values := make([]float64, len(readings))
	for i, reading := range readings {
		values[i] = reading.Celsius
	}
	return stat.Mean(values, nil)
}

func roundTemperature(value float64) float64 {
	return math.Round(value*100) / 100
}
