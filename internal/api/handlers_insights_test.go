package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/terraincognita07/ovumcy-insights/internal/analytics"
	"github.com/terraincognita07/ovumcy-insights/internal/services"
)

func TestPredictionEndpointsUseLoggedHistory(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	token := registerAndToken(t, app, "owner@example.com")

	missing := doJSON(t, app, http.MethodGet, "/api/insights/prediction/latest", token, nil)
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404 before any prediction, got %d", missing.StatusCode)
	}

	for _, start := range []string{"2025-01-01", "2025-01-29", "2025-02-26", "2025-03-26"} {
		logPeriod(t, app, token, start, 3)
	}

	response := doJSON(t, app, http.MethodGet, "/api/insights/prediction", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	var prediction analytics.CyclePrediction
	decodeBody(t, response, &prediction)
	if prediction.Method != analytics.MethodWeightedAverage {
		t.Fatalf("expected weighted average, got %s", prediction.Method)
	}
	if got := prediction.PredictedPeriodStart.Format(dayLayout); got != "2025-04-23" {
		t.Fatalf("expected next period 2025-04-23, got %s", got)
	}
	if got := prediction.PredictedOvulation.Format(dayLayout); got != "2025-04-09" {
		t.Fatalf("expected ovulation 2025-04-09, got %s", got)
	}
	if prediction.CurrentCycleDay != 7 {
		t.Fatalf("expected cycle day 7, got %d", prediction.CurrentCycleDay)
	}

	latest := doJSON(t, app, http.MethodGet, "/api/insights/prediction/latest", token, nil)
	if latest.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", latest.StatusCode)
	}
	var stored struct {
		ID         string                    `json:"id"`
		Prediction analytics.CyclePrediction `json:"prediction"`
	}
	decodeBody(t, latest, &stored)
	if stored.ID == "" || !stored.Prediction.PredictedPeriodStart.Equal(prediction.PredictedPeriodStart) {
		t.Fatalf("expected stored prediction to match, got %#v", stored)
	}

	regularity := doJSON(t, app, http.MethodGet, "/api/insights/regularity", token, nil)
	var profile analytics.RegularityProfile
	decodeBody(t, regularity, &profile)
	if profile.Classification != analytics.RegularityVeryRegular || profile.CycleCount != 3 {
		t.Fatalf("expected 3 very regular cycles, got %s with %d", profile.Classification, profile.CycleCount)
	}
}

func TestPhaseEndpoint(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	token := registerAndToken(t, app, "owner@example.com")

	noData := doJSON(t, app, http.MethodGet, "/api/insights/phase", token, nil)
	if noData.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404 without history, got %d", noData.StatusCode)
	}

	for _, start := range []string{"2025-01-01", "2025-01-29", "2025-02-26", "2025-03-26"} {
		logPeriod(t, app, token, start, 3)
	}

	response := doJSON(t, app, http.MethodGet, "/api/insights/phase?date=2025-04-09", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	var report services.PhaseReport
	decodeBody(t, response, &report)
	if report.Phase != analytics.PhaseOvulation || report.CycleDay != 15 {
		t.Fatalf("expected OVULATION on cycle day 15, got %s on day %d", report.Phase, report.CycleDay)
	}

	today := doJSON(t, app, http.MethodGet, "/api/insights/phase", token, nil)
	var current services.PhaseReport
	decodeBody(t, today, &current)
	if !current.Date.Equal(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)) || current.Phase != analytics.PhaseFollicular {
		t.Fatalf("expected FOLLICULAR today, got %s on %s", current.Phase, current.Date.Format(dayLayout))
	}

	before := doJSON(t, app, http.MethodGet, "/api/insights/phase?date=2025-03-01", token, nil)
	if before.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400 for a date before the last period, got %d", before.StatusCode)
	}

	latest := doJSON(t, app, http.MethodGet, "/api/insights/prediction/latest", token, nil)
	if latest.StatusCode != http.StatusNotFound {
		t.Fatalf("expected phase lookups to leave no stored prediction, got status %d", latest.StatusCode)
	}
}

func TestPredictionRejectsUnpredictableHistory(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	token := registerAndToken(t, app, "owner@example.com")
	for _, start := range []string{"2025-02-01", "2025-02-19", "2025-03-09", "2025-03-27"} {
		logPeriod(t, app, token, start, 1)
	}

	response := doJSON(t, app, http.MethodGet, "/api/insights/prediction", token, nil)
	if response.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422 for 18-day cycles, got %d", response.StatusCode)
	}
}

func TestTemperatureAnalysisEndpoint(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	token := registerAndToken(t, app, "owner@example.com")
	logPeriod(t, app, token, "2025-03-06", 4)

	start := time.Date(2025, time.March, 6, 0, 0, 0, 0, time.UTC)
	for offset := 0; offset < 27; offset++ {
		value := 36.2
		if offset >= 14 {
			value = 36.6
		}
		payload := temperaturePayload{Date: start.AddDate(0, 0, offset).Format(dayLayout), Value: value}
		if response := doJSON(t, app, http.MethodPost, "/api/temperatures", token, payload); response.StatusCode != http.StatusCreated {
			t.Fatalf("expected status 201 for %s, got %d", payload.Date, response.StatusCode)
		}
	}

	response := doJSON(t, app, http.MethodGet, "/api/insights/temperature", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	var analysis analytics.ThermalAnalysis
	decodeBody(t, response, &analysis)
	if analysis.Pattern != analytics.PatternBiphasic || analysis.ReadingCount != 27 {
		t.Fatalf("expected BIPHASIC over 27 readings, got %s over %d", analysis.Pattern, analysis.ReadingCount)
	}
	if analysis.EstimatedOvulation == nil || analysis.EstimatedOvulation.Format(dayLayout) != "2025-03-19" {
		t.Fatalf("expected ovulation 2025-03-19, got %v", analysis.EstimatedOvulation)
	}
}
