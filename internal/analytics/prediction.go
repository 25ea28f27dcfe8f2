package analytics

import (
	"fmt"
	"slices"
	"time"
)

type PredictionMethod string

const (
	MethodInsufficientData     PredictionMethod = "insufficient_data"
	MethodCalendarDefault      PredictionMethod = "calendar_default"
	MethodMedian               PredictionMethod = "median"
	MethodWeightedAverage      PredictionMethod = "weighted_average"
	MethodTemperatureConfirmed PredictionMethod = "temperature_confirmed"
)

const (
	noHistoryConfidence  = 25
	lowTierConfidence    = 40
	mediumTierConfidence = 65
	highTierConfidence   = 85
	thermalHighBonus     = 10
	thermalMediumBonus   = 5
	maxConfidenceLevel   = 95
)

// PredictionInput is everything the orchestrator needs for one user. Zero
// PeriodDuration, LutealPhaseDays and Age select defaults or "unknown".
type PredictionInput struct {
	PeriodStarts      []time.Time
	PeriodDuration    int
	LutealPhaseDays   int
	Age               int
	Goal              UserGoal
	Temperatures      []TemperatureReading
	TemperatureSource MeasurementSource
	Now               time.Time
}

type CyclePrediction struct {
	LastPeriodStart      time.Time         `json:"last_period_start"`
	PredictedPeriodStart time.Time         `json:"predicted_period_start"`
	PredictedPeriodEnd   time.Time         `json:"predicted_period_end"`
	PredictedOvulation   time.Time         `json:"predicted_ovulation"`
	ConfidenceLevel      int               `json:"confidence_level"`
	Method               PredictionMethod  `json:"method"`
	CycleLength          float64           `json:"cycle_length"`
	PeriodDuration       int               `json:"period_duration"`
	CurrentCycleDay      int               `json:"current_cycle_day"`
	CurrentPhase         CyclePhase        `json:"current_phase,omitempty"`
	DaysUntilOvulation   int               `json:"days_until_ovulation"`
	FertileWindow        *FertileWindow    `json:"fertile_window,omitempty"`
	SafetyWindow         *SafetyWindow     `json:"safety_window,omitempty"`
	BestConceptionDays   []time.Time       `json:"best_conception_days,omitempty"`
	Regularity           RegularityProfile `json:"regularity"`
	Thermal              *ThermalAnalysis  `json:"thermal,omitempty"`
	Warnings             []Warning         `json:"warnings,omitempty"`
}

// HasPrediction is false when no period start was known.
func (prediction CyclePrediction) HasPrediction() bool {
	return prediction.Method != MethodInsufficientData && !prediction.PredictedPeriodStart.IsZero()
}

// Predict combines cycle arithmetic, regularity and optional temperature
// analysis into one prediction and derives its fertile window.
func Predict(input PredictionInput) (CyclePrediction, error) {
	goal := input.Goal
	if goal == "" {
		goal = GoalTrackingOnly
	}

	duration := input.PeriodDuration
	var warnings []Warning
	if !IsValidPeriodLength(duration) {
		if duration != 0 {
			warnings = append(warnings, Warning{
				Code:    WarningPeriodLengthClamped,
				Message: fmt.Sprintf("period length of %d days is outside %d-%d, using %d", duration, minPeriodLength, maxPeriodLength, DefaultPeriodLength),
			})
		}
		duration = DefaultPeriodLength
	}

	if len(input.PeriodStarts) == 0 {
		return CyclePrediction{
			Method:         MethodInsufficientData,
			PeriodDuration: duration,
			Regularity:     AnalyzeRegularity(RegularityInput{Age: input.Age}),
			Warnings:       warnings,
		}, nil
	}

	lastStart := latestDay(input.PeriodStarts)
	now := dateOnly(input.Now)
	if input.Now.IsZero() {
		now = lastStart
	}

	lengths, profile, historyWarnings := cycleHistory(input.PeriodStarts, lastStart, input.Age, now)
	warnings = append(warnings, historyWarnings...)

	cycleLength, method := choosePredictor(plausibleLengths(lengths), profile)
	nextStart, err := PredictNextPeriodStart(lastStart, cycleLength)
	if err != nil {
		return CyclePrediction{}, err
	}
	ovulation, lutealWarnings := CalculateOvulationDate(nextStart, input.LutealPhaseDays)
	warnings = append(warnings, lutealWarnings...)
	lutealDays := daysBetween(ovulation, nextStart)

	prediction := CyclePrediction{
		LastPeriodStart: lastStart,
		CycleLength:     cycleLength,
		PeriodDuration:  duration,
		Regularity:      profile,
	}

	thermalBonus := 0
	if len(input.Temperatures) > 0 {
		thermal := AnalyzeTemperatures(readingsSince(input.Temperatures, lastStart), input.TemperatureSource)
		prediction.Thermal = &thermal
		if confirmedOvulation, ok := thermalOvulation(thermal, lastStart); ok {
			ovulation = confirmedOvulation
			nextStart = addDays(ovulation, lutealDays)
			method = MethodTemperatureConfirmed
			thermalBonus = thermalConfidenceBonus(thermal.Confidence)
		}
	}

	window := BuildFertileWindow(ovulation, lastStart, goal, duration)
	prediction.Method = method
	prediction.PredictedPeriodStart = nextStart
	prediction.PredictedPeriodEnd = addDays(nextStart, duration-1)
	prediction.PredictedOvulation = ovulation
	prediction.FertileWindow = &window
	prediction.BestConceptionDays = slices.Clone(window.BestConceptionDays)
	prediction.DaysUntilOvulation = daysBetween(now, ovulation)
	prediction.ConfidenceLevel = min(baseConfidence(profile)+thermalBonus, maxConfidenceLevel)
	if goal == GoalAvoidingPregnancy {
		safety := ExtendedSafetyWindow(ovulation)
		prediction.SafetyWindow = &safety
	}

	if cycleDay, err := CycleDay(lastStart, now); err == nil {
		prediction.CurrentCycleDay = cycleDay
		if phase, err := CurrentPhase(now, lastStart, ovulation, duration); err == nil {
			prediction.CurrentPhase = phase
		}
	}

	prediction.Warnings = warnings
	return prediction, nil
}

// PrepareCycleLengths turns period starts into the cycle lengths every
// analysis works on, with ghost cycles already dropped.
func PrepareCycleLengths(starts []time.Time) ([]int, []Warning) {
	lengths, warnings := CycleLengthsFromStarts(starts)
	lengths, ghostWarnings := excludeGhostCycles(lengths)
	return lengths, append(warnings, ghostWarnings...)
}

// AnalyzeCycleHistory profiles the regularity of a period start history
// exactly as Predict does. Preparation warnings lead the profile warnings.
func AnalyzeCycleHistory(starts []time.Time, age int, now time.Time) RegularityProfile {
	if len(starts) == 0 {
		return AnalyzeRegularity(RegularityInput{Age: age})
	}

	lastStart := latestDay(starts)
	today := dateOnly(now)
	if now.IsZero() {
		today = lastStart
	}
	_, profile, warnings := cycleHistory(starts, lastStart, age, today)
	profile.Warnings = append(warnings, profile.Warnings...)
	return profile
}

func cycleHistory(starts []time.Time, lastStart time.Time, age int, now time.Time) ([]int, RegularityProfile, []Warning) {
	lengths, warnings := PrepareCycleLengths(starts)

	daysSinceLastPeriod := 0
	if !now.Before(lastStart) {
		daysSinceLastPeriod = daysBetween(lastStart, now)
	}
	profile := AnalyzeRegularity(RegularityInput{
		CycleLengths:        lengths,
		Age:                 age,
		DaysSinceLastPeriod: daysSinceLastPeriod,
	})
	return lengths, profile, warnings
}

func latestDay(days []time.Time) time.Time {
	return dateOnly(slices.MaxFunc(days, func(a, b time.Time) int { return a.Compare(b) }))
}

// excludeGhostCycles drops lengths that look like two cycles merged by a
// missed log, judged against the median of the remaining lengths.
func excludeGhostCycles(lengths []int) ([]int, []Warning) {
	if len(lengths) < 3 {
		return lengths, nil
	}

	kept := make([]int, 0, len(lengths))
	var warnings []Warning
	for i, length := range lengths {
		others := make([]int, 0, len(lengths)-1)
		others = append(others, lengths[:i]...)
		others = append(others, lengths[i+1:]...)
		reference := medianInts(others)
		if DetectGhostCycle(length, reference) {
			warnings = append(warnings, Warning{
				Code:    WarningGhostCycleExcluded,
				Message: fmt.Sprintf("cycle of %d days looks like two cycles of about %.0f days; a period start may be missing", length, reference),
			})
			continue
		}
		kept = append(kept, length)
	}
	return kept, warnings
}

func plausibleLengths(lengths []int) []int {
	plausible := make([]int, 0, len(lengths))
	for _, length := range lengths {
		if length >= plausibleCycleMin && length <= plausibleCycleMax {
			plausible = append(plausible, length)
		}
	}
	return plausible
}

func choosePredictor(lengths []int, profile RegularityProfile) (float64, PredictionMethod) {
	switch {
	case len(lengths) == 0:
		return DefaultCycleLength, MethodCalendarDefault
	case profile.Classification.IsRegular() && len(lengths) >= len(recencyWeights):
		return WeightedAverageCycleLength(lengths), MethodWeightedAverage
	default:
		return float64(MedianCycleLength(lengths)), MethodMedian
	}
}

func readingsSince(readings []TemperatureReading, start time.Time) []TemperatureReading {
	current := make([]TemperatureReading, 0, len(readings))
	for _, reading := range readings {
		if !reading.Date.IsZero() && dateOnly(reading.Date).Before(start) {
			continue
		}
		current = append(current, reading)
	}
	return current
}

func thermalOvulation(thermal ThermalAnalysis, cycleStart time.Time) (time.Time, bool) {
	if thermal.EstimatedOvulation == nil {
		return time.Time{}, false
	}
	usable := thermal.Pattern == PatternBiphasic ||
		(thermal.Pattern == PatternAtypical && thermal.Confidence != ConfidenceLow)
	if !usable || !thermal.EstimatedOvulation.After(cycleStart) {
		return time.Time{}, false
	}
	return *thermal.EstimatedOvulation, true
}

func thermalConfidenceBonus(confidence Confidence) int {
	switch confidence {
	case ConfidenceHigh:
		return thermalHighBonus
	case ConfidenceMedium:
		return thermalMediumBonus
	default:
		return 0
	}
}

func baseConfidence(profile RegularityProfile) int {
	if profile.CycleCount == 0 {
		return noHistoryConfidence
	}
	switch profile.PredictionConfidence {
	case ConfidenceHigh:
		return highTierConfidence
	case ConfidenceMedium:
		return mediumTierConfidence
	default:
		return lowTierConfidence
	}
}
