package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/terraincognita07/ovumcy-insights/internal/analytics"
	"github.com/terraincognita07/ovumcy-insights/internal/models"
)

var (
	ErrTemperatureInvalid      = errors.New("temperature must be a finite number")
	ErrTemperatureUnitInvalid  = errors.New("temperature unit must be C or F")
	ErrTemperatureSourceBad    = errors.New("temperature source is invalid")
	ErrTemperatureSaveFailed   = errors.New("save temperature failed")
	ErrTemperatureListFailed   = errors.New("list temperatures failed")
	ErrTemperatureDateOutRange = errors.New("temperature date is in the future or more than a year ago")
)

type TemperatureInput struct {
	Value  float64
	Unit   string
	Source string
}

type TemperatureRepository interface {
	ListByUserSince(ctx context.Context, userID uint, from time.Time) ([]models.TemperatureReading, error)
	Upsert(ctx context.Context, reading *models.TemperatureReading) error
}

type TemperatureService struct {
	readings TemperatureRepository
	location *time.Location
}

func NewTemperatureService(readings TemperatureRepository, location *time.Location) *TemperatureService {
	return &TemperatureService{readings: readings, location: location}
}

// Record stores one reading per day in °C. Readings outside the plausible
// range for their source are kept but returned with a warning.
func (service *TemperatureService) Record(ctx context.Context, userID uint, day time.Time, input TemperatureInput, now time.Time) (models.TemperatureReading, []analytics.Warning, error) {
	if math.IsNaN(input.Value) || math.IsInf(input.Value, 0) {
		return models.TemperatureReading{}, nil, ErrTemperatureInvalid
	}

	celsius := input.Value
	switch strings.ToUpper(strings.TrimSpace(input.Unit)) {
	case "", "C":
	case "F":
		celsius = analytics.CelsiusFromFahrenheit(input.Value)
	default:
		return models.TemperatureReading{}, nil, ErrTemperatureUnitInvalid
	}

	source, ok := analytics.ParseMeasurementSource(input.Source)
	if !ok {
		return models.TemperatureReading{}, nil, ErrTemperatureSourceBad
	}

	dayStart := CalendarDay(day, service.location)
	if !analytics.IsValidLoggingDate(dayStart, CalendarDay(now, service.location)) {
		return models.TemperatureReading{}, nil, ErrTemperatureDateOutRange
	}

	reading := models.TemperatureReading{
		UserID:  userID,
		Date:    dayStart,
		Celsius: math.Round(celsius*100) / 100,
		Source:  string(source),
	}
	if err := service.readings.Upsert(ctx, &reading); err != nil {
		return models.TemperatureReading{}, nil, ErrTemperatureSaveFailed
	}

	var warnings []analytics.Warning
	if !analytics.IsValidBBT(reading.Celsius, source) {
		warnings = append(warnings, analytics.Warning{
			Code:    analytics.WarningAbnormalTemperature,
			Message: "reading is outside the plausible basal range for " + string(source) + " measurement",
		})
	}
	return reading, warnings, nil
}

func (service *TemperatureService) ListSince(ctx context.Context, userID uint, from time.Time) ([]models.TemperatureReading, error) {
	readings, err := service.readings.ListByUserSince(ctx, userID, from)
	if err != nil {
		return nil, ErrTemperatureListFailed
	}
	return readings, nil
}
