package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ovumcy-insights/internal/analytics"
	"github.com/terraincognita07/ovumcy-insights/internal/models"
	"github.com/terraincognita07/ovumcy-insights/internal/services"
)

type temperaturePayload struct {
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Source string  `json:"source"`
}

type temperatureView struct {
	Date    string  `json:"date"`
	Celsius float64 `json:"celsius"`
	Source  string  `json:"source"`
}

type recordedTemperatureResponse struct {
	Reading  temperatureView     `json:"reading"`
	Warnings []analytics.Warning `json:"warnings,omitempty"`
}

func newTemperatureView(reading models.TemperatureReading) temperatureView {
	return temperatureView{
		Date:    formatDay(reading.Date),
		Celsius: reading.Celsius,
		Source:  reading.Source,
	}
}

// ListTemperatures returns readings from the optional ?from= day onwards.
func (handler *Handler) ListTemperatures(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var from time.Time
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		day, err := handler.parseDay(raw)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
		from = services.CalendarDay(day, handler.location)
	}

	readings, err := handler.temperatureService.ListSince(c.UserContext(), user.ID, from)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load temperatures")
	}
	views := make([]temperatureView, 0, len(readings))
	for _, reading := range readings {
		views = append(views, newTemperatureView(reading))
	}
	return c.JSON(views)
}

func (handler *Handler) RecordTemperature(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload temperaturePayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	now := handler.now()
	day := now
	if strings.TrimSpace(payload.Date) != "" {
		parsed, err := handler.parseDay(payload.Date)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
		day = parsed
	}

	source := payload.Source
	if strings.TrimSpace(source) == "" {
		source = user.TemperatureSource
	}
	reading, warnings, err := handler.temperatureService.Record(c.UserContext(), user.ID, day, services.TemperatureInput{
		Value:  payload.Value,
		Unit:   payload.Unit,
		Source: source,
	}, now)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to save temperature")
	}
	return c.Status(fiber.StatusCreated).JSON(recordedTemperatureResponse{
		Reading:  newTemperatureView(reading),
		Warnings: warnings,
	})
}
