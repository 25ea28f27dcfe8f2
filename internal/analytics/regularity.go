package analytics

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

type RegularityClass string

const (
	RegularityVeryRegular     RegularityClass = "VERY_REGULAR"
	RegularityRegular         RegularityClass = "REGULAR"
	RegularityIrregular       RegularityClass = "IRREGULAR"
	RegularityHighlyIrregular RegularityClass = "HIGHLY_IRREGULAR"
)

// IsRegular is true for both regular classes.
func (class RegularityClass) IsRegular() bool {
	return class == RegularityVeryRegular || class == RegularityRegular
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

const (
	plausibleCycleMin = 15
	plausibleCycleMax = 90

	outlierTrimMinCycles = 6

	veryRegularVariability     = 4
	defaultRegularThreshold    = 7
	maturationRegularThreshold = 9
	highlyIrregularVariability = 20

	pcosAverageDays        = 35
	pcosVariabilityDays    = 10
	infrequentCycleDays    = 38
	frequentCycleDays      = 24
	absentBleedingDays     = 90
	bleedingPatternShare   = 0.75
	bleedingPatternMinimum = 2

	highConfidenceCycles   = 6
	mediumConfidenceCycles = 3
	trendMinCycles         = 3
)

// RegularityInput carries a cycle-length history. Age and DaysSinceLastPeriod
// are zero when unknown.
type RegularityInput struct {
	CycleLengths        []int
	Age                 int
	DaysSinceLastPeriod int
}

type HealthFlags struct {
	PossiblePCOS       bool `json:"possible_pcos"`
	InfrequentBleeding bool `json:"infrequent_bleeding"`
	FrequentBleeding   bool `json:"frequent_bleeding"`
	AbsentBleeding     bool `json:"absent_bleeding"`
}

func (flags HealthFlags) Any() bool {
	return flags.PossiblePCOS || flags.InfrequentBleeding || flags.FrequentBleeding || flags.AbsentBleeding
}

type RegularityProfile struct {
	CycleCount             int             `json:"cycle_count"`
	ExcludedCount          int             `json:"excluded_count"`
	Mean                   float64         `json:"mean"`
	Median                 float64         `json:"median"`
	Variability            int             `json:"variability"`
	StandardDeviation      float64         `json:"standard_deviation"`
	CoefficientOfVariation float64         `json:"coefficient_of_variation"`
	TrendSlope             float64         `json:"trend_slope"`
	RegularityThreshold    int             `json:"regularity_threshold"`
	Classification         RegularityClass `json:"classification"`
	Flags                  HealthFlags     `json:"flags"`
	PredictionConfidence   Confidence      `json:"prediction_confidence"`
	Warnings               []Warning       `json:"warnings,omitempty"`
}

// AnalyzeRegularity classifies a cycle history. With no plausible cycles the
// profile is an optimistic REGULAR/LOW default: missing data is not evidence
// of irregularity.
func AnalyzeRegularity(input RegularityInput) RegularityProfile {
	valid := make([]int, 0, len(input.CycleLengths))
	for _, length := range input.CycleLengths {
		if length >= plausibleCycleMin && length <= plausibleCycleMax {
			valid = append(valid, length)
		}
	}

	threshold := RegularityThreshold(input.Age)
	profile := RegularityProfile{
		CycleCount:          len(valid),
		ExcludedCount:       len(input.CycleLengths) - len(valid),
		RegularityThreshold: threshold,
	}
	if profile.ExcludedCount > 0 {
		profile.Warnings = append(profile.Warnings, Warning{
			Code:    WarningCyclesExcluded,
			Message: fmt.Sprintf("%d cycle(s) outside %d-%d days were excluded", profile.ExcludedCount, plausibleCycleMin, plausibleCycleMax),
		})
	}
	profile.Flags.AbsentBleeding = input.DaysSinceLastPeriod > absentBleedingDays

	if len(valid) == 0 {
		profile.Mean = DefaultCycleLength
		profile.Median = DefaultCycleLength
		profile.Classification = RegularityRegular
		profile.PredictionConfidence = ConfidenceLow
		return profile
	}

	values := toFloats(valid)
	profile.Mean = stat.Mean(values, nil)
	profile.Median = medianInts(valid)
	if len(values) > 1 {
		profile.StandardDeviation = stat.StdDev(values, nil)
	}
	if profile.Mean > 0 {
		profile.CoefficientOfVariation = profile.StandardDeviation / profile.Mean * 100
	}
	if len(values) >= trendMinCycles {
		profile.TrendSlope = trendSlope(values)
	}

	profile.Variability = CycleVariability(valid)
	profile.Classification = ClassifyRegularity(profile.Variability, threshold)
	profile.Flags = evaluateHealthFlags(valid, profile.Mean, profile.Variability, input.DaysSinceLastPeriod)
	profile.PredictionConfidence = predictionConfidence(len(valid), profile.Classification)
	return profile
}

// CycleVariability is max-min, dropping the single longest cycle first once
// six or more cycles are known.
func CycleVariability(lengths []int) int {
	if len(lengths) == 0 {
		return 0
	}
	sorted := slices.Clone(lengths)
	slices.Sort(sorted)
	if len(sorted) >= outlierTrimMinCycles {
		sorted = sorted[:len(sorted)-1]
	}
	return sorted[len(sorted)-1] - sorted[0]
}

// RegularityThreshold widens the regular band for adolescent and
// perimenopausal ages. Zero age means unknown.
func RegularityThreshold(age int) int {
	if age > 0 && (age <= 25 || (age >= 42 && age <= 45)) {
		return maturationRegularThreshold
	}
	return defaultRegularThreshold
}

func ClassifyRegularity(variability int, threshold int) RegularityClass {
	switch {
	case variability <= veryRegularVariability:
		return RegularityVeryRegular
	case variability <= threshold:
		return RegularityRegular
	case variability < highlyIrregularVariability:
		return RegularityIrregular
	default:
		return RegularityHighlyIrregular
	}
}

func evaluateHealthFlags(lengths []int, mean float64, variability int, daysSinceLastPeriod int) HealthFlags {
	longCycles, infrequent, frequent := 0, 0, 0
	for _, length := range lengths {
		if length >= pcosAverageDays {
			longCycles++
		}
		if length > infrequentCycleDays {
			infrequent++
		}
		if length < frequentCycleDays {
			frequent++
		}
	}

	total := float64(len(lengths))
	possiblePCOS := mean >= pcosAverageDays ||
		(variability > pcosVariabilityDays && float64(longCycles)/total >= 0.5)
	return HealthFlags{
		PossiblePCOS:       possiblePCOS,
		InfrequentBleeding: infrequent >= bleedingPatternMinimum && float64(infrequent)/total >= bleedingPatternShare,
		FrequentBleeding:   frequent >= bleedingPatternMinimum && float64(frequent)/total >= bleedingPatternShare,
		AbsentBleeding:     daysSinceLastPeriod > absentBleedingDays,
	}
}

func predictionConfidence(cycles int, class RegularityClass) Confidence {
	regular := class.IsRegular()
	switch {
	case cycles >= highConfidenceCycles && regular:
		return ConfidenceHigh
	case cycles >= mediumConfidenceCycles && cycles < highConfidenceCycles && regular:
		return ConfidenceMedium
	case cycles >= highConfidenceCycles && !regular:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// trendSlope is the least-squares change in cycle length per cycle.
func trendSlope(values []float64) float64 {
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, values, nil, false)
	if math.IsNaN(slope) {
		return 0
	}
	return slope
}
