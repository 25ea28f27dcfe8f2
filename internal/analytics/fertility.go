package analytics

import (
	"fmt"
	"strings"
	"time"
)

type UserGoal string

const (
	GoalTryingToConceive  UserGoal = "trying_to_conceive"
	GoalAvoidingPregnancy UserGoal = "avoiding_pregnancy"
	GoalTrackingOnly      UserGoal = "tracking_only"
)

func ParseUserGoal(raw string) (UserGoal, bool) {
	switch goal := UserGoal(strings.ToLower(strings.TrimSpace(raw))); goal {
	case GoalTryingToConceive, GoalAvoidingPregnancy, GoalTrackingOnly:
		return goal, true
	case "":
		return GoalTrackingOnly, true
	default:
		return "", false
	}
}

type CyclePhase string

const (
	PhaseMenstrual  CyclePhase = "MENSTRUAL"
	PhaseFollicular CyclePhase = "FOLLICULAR"
	PhaseOvulation  CyclePhase = "OVULATION"
	PhaseLuteal     CyclePhase = "LUTEAL"
)

const (
	fertileWindowStartOffset = -5
	fertileWindowEndOffset   = 1

	safetyWindowStartOffset = -7
	safetyWindowEndOffset   = 2

	LabelPeak   = "Peak"
	LabelHigh   = "High"
	LabelMedium = "Medium"
	LabelLow    = "Low"

	RiskVeryHigh = "Very High Risk"
	RiskHigh     = "High Risk"
	RiskCaution  = "Caution"
	RiskSafe     = "Safe"
)

// conceptionProbability maps the offset from ovulation to a per-day chance of
// conception in percent. The table is fixed and never fitted per user.
var conceptionProbability = map[int]int{
	-5: 10,
	-4: 15,
	-3: 20,
	-2: 30,
	-1: 30,
	0:  25,
	1:  10,
}

type FertileDay struct {
	Date        time.Time `json:"date"`
	Offset      int       `json:"offset"`
	Probability int       `json:"probability"`
	Label       string    `json:"label"`
	RiskLabel   string    `json:"risk_label,omitempty"`
}

type FertileWindow struct {
	Start                time.Time    `json:"start"`
	End                  time.Time    `json:"end"`
	Ovulation            time.Time    `json:"ovulation"`
	Goal                 UserGoal     `json:"goal"`
	PeakDays             []time.Time  `json:"peak_days"`
	BestConceptionDays   []time.Time  `json:"best_conception_days"`
	Days                 []FertileDay `json:"days"`
	OverlapsMenstruation bool         `json:"overlaps_menstruation"`
}

type SafetyWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ConceptionProbability returns the percentage for a day offset from ovulation,
// zero outside the fertile window.
func ConceptionProbability(offset int) int {
	return conceptionProbability[offset]
}

// BuildFertileWindow derives the O-5..O+1 window. Risk labels are attached only
// when the user is avoiding pregnancy.
func BuildFertileWindow(ovulationDate, periodStart time.Time, goal UserGoal, periodDuration int) FertileWindow {
	ovulation := dateOnly(ovulationDate)
	window := FertileWindow{
		Start:     addDays(ovulation, fertileWindowStartOffset),
		End:       addDays(ovulation, fertileWindowEndOffset),
		Ovulation: ovulation,
		Goal:      goal,
		PeakDays: []time.Time{
			addDays(ovulation, -2),
			addDays(ovulation, -1),
			ovulation,
		},
		BestConceptionDays: []time.Time{
			addDays(ovulation, -2),
			addDays(ovulation, -1),
		},
	}

	window.Days = make([]FertileDay, 0, fertileWindowEndOffset-fertileWindowStartOffset+1)
	for offset := fertileWindowStartOffset; offset <= fertileWindowEndOffset; offset++ {
		probability := ConceptionProbability(offset)
		day := FertileDay{
			Date:        addDays(ovulation, offset),
			Offset:      offset,
			Probability: probability,
			Label:       fertilityLabel(probability),
		}
		if goal == GoalAvoidingPregnancy {
			day.RiskLabel = riskLabel(probability)
		}
		window.Days = append(window.Days, day)
	}

	if !periodStart.IsZero() {
		window.OverlapsMenstruation = DetectMenstrualOverlap(window.Start, periodStart, periodDuration)
	}
	return window
}

// ExtendedSafetyWindow widens the window to O-7..O+2 for users who prefer
// caution over precision.
func ExtendedSafetyWindow(ovulationDate time.Time) SafetyWindow {
	return SafetyWindow{
		Start: addDays(ovulationDate, safetyWindowStartOffset),
		End:   addDays(ovulationDate, safetyWindowEndOffset),
	}
}

// DetectMenstrualOverlap reports a fertile window that starts on or before the
// last bleeding day.
func DetectMenstrualOverlap(windowStart, periodStart time.Time, periodDuration int) bool {
	if periodDuration <= 0 {
		return false
	}
	lastBleedingDay := addDays(periodStart, periodDuration-1)
	return !dateOnly(windowStart).After(lastBleedingDay)
}

func CurrentPhase(date, periodStart, ovulationDate time.Time, periodDuration int) (CyclePhase, error) {
	cycleDay, err := CycleDay(periodStart, date)
	if err != nil {
		return "", err
	}
	if !IsValidPeriodLength(periodDuration) {
		return "", &RangeError{Op: "current phase", Value: float64(periodDuration), Min: minPeriodLength, Max: maxPeriodLength}
	}

	switch {
	case cycleDay <= periodDuration:
		return PhaseMenstrual, nil
	case betweenInclusive(date, addDays(ovulationDate, -1), addDays(ovulationDate, 1)):
		return PhaseOvulation, nil
	case dateOnly(date).Before(addDays(ovulationDate, -1)):
		return PhaseFollicular, nil
	default:
		return PhaseLuteal, nil
	}
}

func fertilityLabel(probability int) string {
	switch {
	case probability >= 25:
		return LabelPeak
	case probability >= 15:
		return LabelHigh
	case probability >= 10:
		return LabelMedium
	default:
		return LabelLow
	}
}

func riskLabel(probability int) string {
	switch {
	case probability >= 25:
		return RiskVeryHigh
	case probability >= 15:
		return RiskHigh
	case probability >= 10:
		return RiskCaution
	default:
		return RiskSafe
	}
}

func (window FertileWindow) String() string {
	return fmt.Sprintf("%s..%s (ovulation %s)", window.Start.Format(dayLayout), window.End.Format(dayLayout), window.Ovulation.Format(dayLayout))
}
