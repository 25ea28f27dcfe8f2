package analytics

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestPredictRegularHistory(t *testing.T) {
	t.Parallel()

	prediction, err := Predict(PredictionInput{
		PeriodStarts: days(t, "2025-01-01", "2025-01-29", "2025-02-26", "2025-03-26"),
		Goal:         GoalTryingToConceive,
		Now:          mustParseDay(t, "2025-04-01"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if prediction.Method != MethodWeightedAverage {
		t.Fatalf("expected weighted average, got %s", prediction.Method)
	}
	if math.Abs(prediction.CycleLength-28) > 1e-9 {
		t.Fatalf("expected cycle length 28, got %f", prediction.CycleLength)
	}
	assertDay(t, "predicted period start", prediction.PredictedPeriodStart, "2025-04-23")
	assertDay(t, "predicted period end", prediction.PredictedPeriodEnd, "2025-04-27")
	assertDay(t, "predicted ovulation", prediction.PredictedOvulation, "2025-04-09")
	if prediction.FertileWindow == nil {
		t.Fatal("expected fertile window")
	}
	assertDay(t, "fertile window start", prediction.FertileWindow.Start, "2025-04-04")
	assertDay(t, "fertile window end", prediction.FertileWindow.End, "2025-04-10")

	if prediction.DaysUntilOvulation != 8 {
		t.Fatalf("expected 8 days until ovulation, got %d", prediction.DaysUntilOvulation)
	}
	if prediction.CurrentCycleDay != 7 || prediction.CurrentPhase != PhaseFollicular {
		t.Fatalf("expected day 7 in FOLLICULAR, got day %d in %s", prediction.CurrentCycleDay, prediction.CurrentPhase)
	}
	if prediction.ConfidenceLevel != mediumTierConfidence {
		t.Fatalf("expected confidence %d, got %d", mediumTierConfidence, prediction.ConfidenceLevel)
	}
	if prediction.SafetyWindow != nil {
		t.Fatal("expected no safety window when trying to conceive")
	}
	if len(prediction.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %#v", prediction.Warnings)
	}
	if !prediction.HasPrediction() {
		t.Fatal("expected a usable prediction")
	}
}

func TestPredictExcludesGhostCycle(t *testing.T) {
	t.Parallel()

	prediction, err := Predict(PredictionInput{
		PeriodStarts: days(t, "2025-01-01", "2025-01-29", "2025-02-27", "2025-04-24", "2025-05-22"),
		Now:          mustParseDay(t, "2025-05-25"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !HasWarning(prediction.Warnings, WarningGhostCycleExcluded) {
		t.Fatalf("expected ghost cycle warning, got %#v", prediction.Warnings)
	}
	if prediction.Regularity.CycleCount != 3 {
		t.Fatalf("expected 3 cycles after exclusion, got %d", prediction.Regularity.CycleCount)
	}
	if prediction.Regularity.Classification != RegularityVeryRegular {
		t.Fatalf("expected VERY_REGULAR once the merged cycle is dropped, got %s", prediction.Regularity.Classification)
	}
	assertDay(t, "predicted period start", prediction.PredictedPeriodStart, "2025-06-19")
}

func TestAnalyzeCycleHistoryMatchesPrediction(t *testing.T) {
	t.Parallel()

	starts := days(t, "2025-01-01", "2025-01-29", "2025-02-26", "2025-04-23", "2025-05-21")
	now := mustParseDay(t, "2025-06-01")

	profile := AnalyzeCycleHistory(starts, 0, now)
	if profile.Classification != RegularityVeryRegular || profile.Variability != 0 {
		t.Fatalf("expected VERY_REGULAR with variability 0, got %s with %d", profile.Classification, profile.Variability)
	}
	if profile.Flags.PossiblePCOS {
		t.Fatal("expected the 56-day ghost cycle not to raise a PCOS flag")
	}
	if !HasWarning(profile.Warnings, WarningGhostCycleExcluded) {
		t.Fatalf("expected ghost cycle warning on the profile, got %#v", profile.Warnings)
	}

	prediction, err := Predict(PredictionInput{PeriodStarts: starts, Now: now})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prediction.Regularity.Classification != profile.Classification ||
		prediction.Regularity.Variability != profile.Variability ||
		prediction.Regularity.CycleCount != profile.CycleCount ||
		prediction.Regularity.Flags != profile.Flags {
		t.Fatalf("expected prediction regularity %#v to match %#v", prediction.Regularity, profile)
	}

	lengths, warnings := PrepareCycleLengths(starts)
	if !reflect.DeepEqual(lengths, []int{28, 28, 28}) || !HasWarning(warnings, WarningGhostCycleExcluded) {
		t.Fatalf("expected ghost-free lengths [28 28 28], got %v %#v", lengths, warnings)
	}

	empty := AnalyzeCycleHistory(nil, 30, now)
	if empty.CycleCount != 0 || empty.Classification != RegularityRegular {
		t.Fatalf("expected an empty REGULAR profile, got %#v", empty)
	}
}

func TestPredictTemperatureConfirmedOvulation(t *testing.T) {
	t.Parallel()

	readings := readingSeries(mustParseDay(t, "2025-03-01"), repeat(36.2, 14), repeat(36.6, 12))
	readings = append(readings, TemperatureReading{Date: mustParseDay(t, "2025-02-20"), Celsius: 37.0})

	prediction, err := Predict(PredictionInput{
		PeriodStarts:      days(t, "2025-02-01", "2025-03-01"),
		Temperatures:      readings,
		TemperatureSource: SourceOral,
		Now:               mustParseDay(t, "2025-03-27"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if prediction.Method != MethodTemperatureConfirmed {
		t.Fatalf("expected temperature-confirmed method, got %s", prediction.Method)
	}
	if prediction.Thermal == nil || prediction.Thermal.ReadingCount != 26 {
		t.Fatalf("expected 26 readings from the current cycle, got %#v", prediction.Thermal)
	}
	assertDay(t, "predicted ovulation", prediction.PredictedOvulation, "2025-03-14")
	assertDay(t, "predicted period start", prediction.PredictedPeriodStart, "2025-03-28")
	if prediction.ConfidenceLevel != lowTierConfidence+thermalHighBonus {
		t.Fatalf("expected confidence %d, got %d", lowTierConfidence+thermalHighBonus, prediction.ConfidenceLevel)
	}
	if prediction.CurrentPhase != PhaseLuteal {
		t.Fatalf("expected LUTEAL, got %s", prediction.CurrentPhase)
	}
}

func TestPredictMonophasicTemperaturesKeepCalendar(t *testing.T) {
	t.Parallel()

	prediction, err := Predict(PredictionInput{
		PeriodStarts: days(t, "2025-02-01", "2025-03-01"),
		Temperatures: readingSeries(mustParseDay(t, "2025-03-01"), repeat(36.3, 12)),
		Now:          mustParseDay(t, "2025-03-12"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prediction.Method != MethodMedian {
		t.Fatalf("expected median method, got %s", prediction.Method)
	}
	if prediction.Thermal == nil || prediction.Thermal.Pattern != PatternMonophasic {
		t.Fatalf("expected monophasic thermal analysis, got %#v", prediction.Thermal)
	}
	assertDay(t, "predicted period start", prediction.PredictedPeriodStart, "2025-03-29")
	if prediction.ConfidenceLevel != lowTierConfidence {
		t.Fatalf("expected confidence %d, got %d", lowTierConfidence, prediction.ConfidenceLevel)
	}
}

func TestPredictWithoutHistory(t *testing.T) {
	t.Parallel()

	prediction, err := Predict(PredictionInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prediction.Method != MethodInsufficientData || prediction.HasPrediction() {
		t.Fatalf("expected insufficient data, got %#v", prediction)
	}
	if prediction.FertileWindow != nil {
		t.Fatal("expected no fertile window without a period start")
	}

	single, err := Predict(PredictionInput{PeriodStarts: days(t, "2025-03-01")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if single.Method != MethodCalendarDefault {
		t.Fatalf("expected calendar default, got %s", single.Method)
	}
	if single.ConfidenceLevel != noHistoryConfidence {
		t.Fatalf("expected confidence %d, got %d", noHistoryConfidence, single.ConfidenceLevel)
	}
	assertDay(t, "predicted period start", single.PredictedPeriodStart, "2025-03-29")
	if single.CurrentCycleDay != 1 || single.CurrentPhase != PhaseMenstrual {
		t.Fatalf("expected day 1 in MENSTRUAL when now is unset, got day %d in %s", single.CurrentCycleDay, single.CurrentPhase)
	}
}

func TestPredictRejectsUnpredictableCycleLength(t *testing.T) {
	t.Parallel()

	_, err := Predict(PredictionInput{
		PeriodStarts: days(t, "2025-01-01", "2025-01-19", "2025-02-06", "2025-02-24"),
	})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for 18-day cycles, got %v", err)
	}
}

func TestPredictAvoidingPregnancy(t *testing.T) {
	t.Parallel()

	prediction, err := Predict(PredictionInput{
		PeriodStarts: days(t, "2025-01-01", "2025-01-29", "2025-02-26", "2025-03-26"),
		Goal:         GoalAvoidingPregnancy,
		Now:          mustParseDay(t, "2025-04-01"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prediction.SafetyWindow == nil {
		t.Fatal("expected safety window when avoiding pregnancy")
	}
	assertDay(t, "safety window start", prediction.SafetyWindow.Start, "2025-04-02")
	assertDay(t, "safety window end", prediction.SafetyWindow.End, "2025-04-11")
	for _, day := range prediction.FertileWindow.Days {
		if day.RiskLabel == "" {
			t.Fatalf("expected risk label on %s", day.Date.Format(dayLayout))
		}
	}
}

func TestPredictClampsInvalidSettings(t *testing.T) {
	t.Parallel()

	prediction, err := Predict(PredictionInput{
		PeriodStarts:    days(t, "2025-01-01", "2025-01-29", "2025-02-26", "2025-03-26"),
		PeriodDuration:  20,
		LutealPhaseDays: 25,
		Now:             mustParseDay(t, "2025-04-01"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !HasWarning(prediction.Warnings, WarningLutealLengthClamped) {
		t.Fatalf("expected luteal clamp warning, got %#v", prediction.Warnings)
	}
	if !HasWarning(prediction.Warnings, WarningPeriodLengthClamped) {
		t.Fatalf("expected period length clamp warning, got %#v", prediction.Warnings)
	}
	if prediction.PeriodDuration != DefaultPeriodLength {
		t.Fatalf("expected default period length, got %d", prediction.PeriodDuration)
	}
	assertDay(t, "predicted ovulation", prediction.PredictedOvulation, "2025-04-09")
}

func TestPredictIsDeterministicAndOrderIndependent(t *testing.T) {
	t.Parallel()

	ordered := PredictionInput{
		PeriodStarts: days(t, "2025-01-01", "2025-01-30", "2025-02-26", "2025-03-27"),
		Age:          34,
		Goal:         GoalTrackingOnly,
		Now:          mustParseDay(t, "2025-04-10"),
	}
	shuffled := ordered
	shuffled.PeriodStarts = days(t, "2025-03-27", "2025-01-01", "2025-02-26", "2025-01-30", "2025-02-26")

	first, err := Predict(ordered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Predict(ordered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical predictions, got %#v and %#v", first, second)
	}

	third, err := Predict(shuffled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !third.PredictedPeriodStart.Equal(first.PredictedPeriodStart) || third.Method != first.Method {
		t.Fatalf("expected shuffled starts to predict %s via %s, got %s via %s",
			first.PredictedPeriodStart.Format(dayLayout), first.Method,
			third.PredictedPeriodStart.Format(dayLayout), third.Method)
	}
}

func days(t *testing.T, raw ...string) []time.Time {
	t.Helper()

	parsed := make([]time.Time, 0, len(raw))
	for _, value := range raw {
		parsed = append(parsed, mustParseDay(t, value))
	}
	return parsed
}

func assertDay(t *testing.T, label string, got time.Time, want string) {
	t.Helper()

	if got.Format(dayLayout) != want {
		t.Fatalf("expected %s %s, got %s", label, want, got.Format(dayLayout))
	}
}
