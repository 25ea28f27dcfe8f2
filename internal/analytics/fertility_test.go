package analytics

import (
	"errors"
	"testing"
)

func TestBuildFertileWindowForConception(t *testing.T) {
	t.Parallel()

	ovulation := mustParseDay(t, "2025-03-15")
	window := BuildFertileWindow(ovulation, mustParseDay(t, "2025-03-01"), GoalTryingToConceive, 5)

	if window.Start.Format(dayLayout) != "2025-03-10" || window.End.Format(dayLayout) != "2025-03-16" {
		t.Fatalf("expected window 2025-03-10..2025-03-16, got %s", window)
	}
	if len(window.Days) != 7 {
		t.Fatalf("expected 7 fertile days, got %d", len(window.Days))
	}

	wantLabels := []string{LabelMedium, LabelHigh, LabelHigh, LabelPeak, LabelPeak, LabelPeak, LabelMedium}
	total := 0
	for i, day := range window.Days {
		if day.Label != wantLabels[i] {
			t.Fatalf("day %d: expected label %q, got %q", day.Offset, wantLabels[i], day.Label)
		}
		if day.RiskLabel != "" {
			t.Fatalf("day %d: expected no risk label when trying to conceive, got %q", day.Offset, day.RiskLabel)
		}
		total += day.Probability
	}
	if total != 140 {
		t.Fatalf("expected probabilities to sum to 140, got %d", total)
	}

	if len(window.PeakDays) != 3 || !sameDay(window.PeakDays[0], mustParseDay(t, "2025-03-13")) {
		t.Fatalf("expected peak days from 2025-03-13, got %v", window.PeakDays)
	}
	if len(window.BestConceptionDays) != 2 || !sameDay(window.BestConceptionDays[1], mustParseDay(t, "2025-03-14")) {
		t.Fatalf("expected best conception days ending 2025-03-14, got %v", window.BestConceptionDays)
	}
	if window.OverlapsMenstruation {
		t.Fatal("expected no overlap with a period ending 2025-03-05")
	}
}

func TestBuildFertileWindowRiskLabels(t *testing.T) {
	t.Parallel()

	window := BuildFertileWindow(mustParseDay(t, "2025-03-15"), mustParseDay(t, "2025-03-01"), GoalAvoidingPregnancy, 5)
	want := []string{RiskCaution, RiskHigh, RiskHigh, RiskVeryHigh, RiskVeryHigh, RiskVeryHigh, RiskCaution}
	for i, day := range window.Days {
		if day.RiskLabel != want[i] {
			t.Fatalf("day %d: expected risk %q, got %q", day.Offset, want[i], day.RiskLabel)
		}
	}

	safety := ExtendedSafetyWindow(mustParseDay(t, "2025-03-15"))
	if safety.Start.Format(dayLayout) != "2025-03-08" || safety.End.Format(dayLayout) != "2025-03-17" {
		t.Fatalf("expected safety window 2025-03-08..2025-03-17, got %s..%s", safety.Start.Format(dayLayout), safety.End.Format(dayLayout))
	}
}

func TestConceptionProbabilityOutsideWindow(t *testing.T) {
	t.Parallel()

	for _, offset := range []int{-7, -6, 2, 5} {
		if got := ConceptionProbability(offset); got != 0 {
			t.Fatalf("offset %d: expected 0, got %d", offset, got)
		}
	}
	if got := ConceptionProbability(-2); got != 30 {
		t.Fatalf("expected 30 at O-2, got %d", got)
	}
}

func TestDetectMenstrualOverlap(t *testing.T) {
	t.Parallel()

	periodStart := mustParseDay(t, "2025-03-01")
	cases := []struct {
		name      string
		ovulation string
		duration  int
		want      bool
	}{
		{name: "window starts on last bleeding day", ovulation: "2025-03-10", duration: 5, want: true},
		{name: "window starts inside period", ovulation: "2025-03-09", duration: 5, want: true},
		{name: "window starts after period", ovulation: "2025-03-11", duration: 5, want: false},
		{name: "no period length", ovulation: "2025-03-09", duration: 0, want: false},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			window := BuildFertileWindow(mustParseDay(t, testCase.ovulation), periodStart, GoalTrackingOnly, testCase.duration)
			if window.OverlapsMenstruation != testCase.want {
				t.Fatalf("expected overlap %v, got %v", testCase.want, window.OverlapsMenstruation)
			}
		})
	}
}

func TestCurrentPhase(t *testing.T) {
	t.Parallel()

	periodStart := mustParseDay(t, "2025-03-01")
	ovulation := mustParseDay(t, "2025-03-15")
	cases := []struct {
		date     string
		duration int
		want     CyclePhase
	}{
		{date: "2025-03-01", duration: 5, want: PhaseMenstrual},
		{date: "2025-03-05", duration: 5, want: PhaseMenstrual},
		{date: "2025-03-06", duration: 5, want: PhaseFollicular},
		{date: "2025-03-06", duration: 7, want: PhaseMenstrual},
		{date: "2025-03-13", duration: 5, want: PhaseFollicular},
		{date: "2025-03-14", duration: 5, want: PhaseOvulation},
		{date: "2025-03-16", duration: 5, want: PhaseOvulation},
		{date: "2025-03-17", duration: 5, want: PhaseLuteal},
		{date: "2025-03-28", duration: 5, want: PhaseLuteal},
	}

	for _, testCase := range cases {
		phase, err := CurrentPhase(mustParseDay(t, testCase.date), periodStart, ovulation, testCase.duration)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", testCase.date, err)
		}
		if phase != testCase.want {
			t.Fatalf("%s with %d-day period: expected %s, got %s", testCase.date, testCase.duration, testCase.want, phase)
		}
	}
}

func TestCurrentPhaseErrors(t *testing.T) {
	t.Parallel()

	periodStart := mustParseDay(t, "2025-03-01")
	ovulation := mustParseDay(t, "2025-03-15")

	if _, err := CurrentPhase(mustParseDay(t, "2025-02-28"), periodStart, ovulation, 5); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder before the period start, got %v", err)
	}

	_, err := CurrentPhase(mustParseDay(t, "2025-03-10"), periodStart, ovulation, 15)
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected *RangeError for a 15-day period, got %v", err)
	}
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestParseUserGoal(t *testing.T) {
	t.Parallel()

	if goal, ok := ParseUserGoal("Avoiding_Pregnancy"); !ok || goal != GoalAvoidingPregnancy {
		t.Fatalf("expected avoiding_pregnancy, got %q %v", goal, ok)
	}
	if goal, ok := ParseUserGoal(""); !ok || goal != GoalTrackingOnly {
		t.Fatalf("expected tracking_only default, got %q %v", goal, ok)
	}
	if _, ok := ParseUserGoal("pregnant"); ok {
		t.Fatal("expected unknown goal to be rejected")
	}
}
