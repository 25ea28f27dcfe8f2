package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/ovumcy-insights/internal/analytics"
	"github.com/terraincognita07/ovumcy-insights/internal/models"
	"golang.org/x/sync/errgroup"
)

// thermalLookbackDays bounds the readings loaded for a user with no logged
// period, roughly one long cycle.
const thermalLookbackDays = 45

var (
	ErrInsightsLoadFailed  = errors.New("load insights history failed")
	ErrInsightsSaveFailed  = errors.New("save prediction failed")
	ErrInsightsNoCycleData = errors.New("no period has been logged yet")
)

type InsightsUserReader interface {
	FindByID(ctx context.Context, userID uint) (models.User, error)
}

type InsightsDayReader interface {
	ListPeriodDays(ctx context.Context, userID uint) ([]models.DailyLog, error)
}

type InsightsTemperatureReader interface {
	ListByUserSince(ctx context.Context, userID uint, from time.Time) ([]models.TemperatureReading, error)
}

type PredictionStore interface {
	Save(ctx context.Context, prediction *models.Prediction) error
	FindLatest(ctx context.Context, userID uint) (models.Prediction, bool, error)
}

type InsightsService struct {
	users        InsightsUserReader
	days         InsightsDayReader
	temperatures InsightsTemperatureReader
	predictions  PredictionStore
	location     *time.Location
	logger       zerolog.Logger
}

type PhaseReport struct {
	Date               time.Time            `json:"date"`
	Phase              analytics.CyclePhase `json:"phase"`
	CycleDay           int                  `json:"cycle_day"`
	LastPeriodStart    time.Time            `json:"last_period_start"`
	PredictedOvulation time.Time            `json:"predicted_ovulation"`
}

type RecomputeSummary struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

func NewInsightsService(
	users InsightsUserReader,
	days InsightsDayReader,
	temperatures InsightsTemperatureReader,
	predictions PredictionStore,
	location *time.Location,
	logger zerolog.Logger,
) *InsightsService {
	return &InsightsService{
		users:        users,
		days:         days,
		temperatures: temperatures,
		predictions:  predictions,
		location:     location,
		logger:       logger.With().Str("component", "insights").Logger(),
	}
}

func (service *InsightsService) Regularity(ctx context.Context, userID uint, now time.Time) (analytics.RegularityProfile, error) {
	input, err := service.loadInput(ctx, userID, now)
	if err != nil {
		return analytics.RegularityProfile{}, err
	}

	profile := analytics.AnalyzeCycleHistory(input.PeriodStarts, input.Age, input.Now)
	service.logWarnings(userID, "regularity", profile.Warnings)
	return profile, nil
}

func (service *InsightsService) Temperature(ctx context.Context, userID uint, now time.Time) (analytics.ThermalAnalysis, error) {
	input, err := service.loadInput(ctx, userID, now)
	if err != nil {
		return analytics.ThermalAnalysis{}, err
	}

	analysis := analytics.AnalyzeTemperatures(input.Temperatures, input.TemperatureSource)
	service.logWarnings(userID, "temperature", analysis.Warnings)
	return analysis, nil
}

// Predict runs the full engine for the user and stores the result as the
// user's latest prediction.
func (service *InsightsService) Predict(ctx context.Context, userID uint, now time.Time) (analytics.CyclePrediction, error) {
	prediction, err := service.predict(ctx, userID, now)
	if err != nil {
		return analytics.CyclePrediction{}, err
	}
	if err := service.persist(ctx, userID, prediction, now); err != nil {
		return analytics.CyclePrediction{}, err
	}
	return prediction, nil
}

// Phase resolves the cycle phase of date without storing a prediction.
func (service *InsightsService) Phase(ctx context.Context, userID uint, date time.Time, now time.Time) (PhaseReport, error) {
	prediction, err := service.predict(ctx, userID, now)
	if err != nil {
		return PhaseReport{}, err
	}
	if !prediction.HasPrediction() {
		return PhaseReport{}, ErrInsightsNoCycleData
	}

	day := CalendarDay(date, service.location)
	phase, err := analytics.CurrentPhase(day, prediction.LastPeriodStart, prediction.PredictedOvulation, prediction.PeriodDuration)
	if err != nil {
		return PhaseReport{}, err
	}
	cycleDay, err := analytics.CycleDay(prediction.LastPeriodStart, day)
	if err != nil {
		return PhaseReport{}, err
	}
	return PhaseReport{
		Date:               day,
		Phase:              phase,
		CycleDay:           cycleDay,
		LastPeriodStart:    prediction.LastPeriodStart,
		PredictedOvulation: prediction.PredictedOvulation,
	}, nil
}

func (service *InsightsService) predict(ctx context.Context, userID uint, now time.Time) (analytics.CyclePrediction, error) {
	input, err := service.loadInput(ctx, userID, now)
	if err != nil {
		return analytics.CyclePrediction{}, err
	}

	prediction, err := analytics.Predict(input)
	if err != nil {
		return analytics.CyclePrediction{}, fmt.Errorf("predict user %d: %w", userID, err)
	}
	service.logWarnings(userID, "prediction", prediction.Warnings)
	return prediction, nil
}

func (service *InsightsService) LatestPrediction(ctx context.Context, userID uint) (models.Prediction, bool, error) {
	stored, found, err := service.predictions.FindLatest(ctx, userID)
	if err != nil {
		return models.Prediction{}, false, ErrInsightsLoadFailed
	}
	return stored, found, nil
}

// RecomputeAll refreshes the stored prediction of every user with at most
// workers running at once. Users whose history cannot be predicted are
// counted as skipped; a cancelled context stops the batch.
func (service *InsightsService) RecomputeAll(ctx context.Context, userIDs []uint, workers int, now time.Time) (RecomputeSummary, error) {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(workers, 1))

	var processed, skipped, failed atomic.Int64
	for _, userID := range userIDs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			_, err := service.Predict(groupCtx, userID, now)
			switch {
			case err == nil:
				processed.Add(1)
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			case errors.Is(err, analytics.ErrOutOfRange):
				skipped.Add(1)
				service.logger.Info().Uint("user_id", userID).Err(err).Msg("prediction skipped")
			default:
				failed.Add(1)
				service.logger.Error().Uint("user_id", userID).Err(err).Msg("prediction failed")
			}
			return nil
		})
	}

	err := group.Wait()
	summary := RecomputeSummary{
		Processed: int(processed.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
	}
	if err != nil {
		return summary, fmt.Errorf("recompute predictions: %w", err)
	}
	return summary, nil
}

func (service *InsightsService) loadInput(ctx context.Context, userID uint, now time.Time) (analytics.PredictionInput, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return analytics.PredictionInput{}, fmt.Errorf("%w: user %d: %w", ErrInsightsLoadFailed, userID, err)
	}
	logs, err := service.days.ListPeriodDays(ctx, userID)
	if err != nil {
		return analytics.PredictionInput{}, fmt.Errorf("%w: period days: %w", ErrInsightsLoadFailed, err)
	}

	today := CalendarDay(now, service.location)
	starts := DetectCycleStarts(logs)
	readingsFrom := today.AddDate(0, 0, -thermalLookbackDays)
	if len(starts) > 0 {
		readingsFrom = starts[len(starts)-1]
	}
	stored, err := service.temperatures.ListByUserSince(ctx, userID, readingsFrom)
	if err != nil {
		return analytics.PredictionInput{}, fmt.Errorf("%w: temperatures: %w", ErrInsightsLoadFailed, err)
	}

	periodLength := user.PeriodLength
	if periodLength == 0 {
		periodLength = ObservedPeriodLength(logs)
	}
	goal, _ := analytics.ParseUserGoal(user.Goal)
	source, _ := analytics.ParseMeasurementSource(user.TemperatureSource)

	readings := make([]analytics.TemperatureReading, 0, len(stored))
	for _, reading := range stored {
		readings = append(readings, analytics.TemperatureReading{
			Date:    reading.Date,
			Celsius: reading.Celsius,
			Source:  readingSource(reading.Source),
		})
	}

	return analytics.PredictionInput{
		PeriodStarts:      starts,
		PeriodDuration:    periodLength,
		LutealPhaseDays:   user.LutealPhaseDays,
		Age:               user.Age,
		Goal:              goal,
		Temperatures:      readings,
		TemperatureSource: source,
		Now:               today,
	}, nil
}

func (service *InsightsService) persist(ctx context.Context, userID uint, prediction analytics.CyclePrediction, now time.Time) error {
	payload, err := json.Marshal(prediction)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrInsightsSaveFailed, err)
	}

	record := models.Prediction{
		UserID:          userID,
		Method:          string(prediction.Method),
		ConfidenceLevel: prediction.ConfidenceLevel,
		Payload:         payload,
		ComputedAt:      now.UTC(),
	}
	if prediction.HasPrediction() {
		start, ovulation := prediction.PredictedPeriodStart, prediction.PredictedOvulation
		record.PredictedPeriodStart = &start
		record.PredictedOvulation = &ovulation
	}
	if err := service.predictions.Save(ctx, &record); err != nil {
		return fmt.Errorf("%w: %w", ErrInsightsSaveFailed, err)
	}
	return nil
}

// readingSource leaves blank or unknown stored sources empty so the engine
// falls back to the profile source.
func readingSource(raw string) analytics.MeasurementSource {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	source, ok := analytics.ParseMeasurementSource(raw)
	if !ok {
		return ""
	}
	return source
}

func (service *InsightsService) logWarnings(userID uint, stage string, warnings []analytics.Warning) {
	for _, warning := range warnings {
		service.logger.Warn().
			Uint("user_id", userID).
			Str("stage", stage).
			Str("code", string(warning.Code)).
			Msg(warning.Message)
	}
}
