package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type latestPredictionResponse struct {
	ID         string          `json:"id"`
	ComputedAt string          `json:"computed_at"`
	Prediction json.RawMessage `json:"prediction"`
}

func (handler *Handler) GetRegularity(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	profile, err := handler.insightsService.Regularity(c.UserContext(), user.ID, handler.now())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to analyze regularity")
	}
	return c.JSON(profile)
}

func (handler *Handler) GetTemperatureAnalysis(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	analysis, err := handler.insightsService.Temperature(c.UserContext(), user.ID, handler.now())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to analyze temperatures")
	}
	return c.JSON(analysis)
}

func (handler *Handler) GetPrediction(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	prediction, err := handler.insightsService.Predict(c.UserContext(), user.ID, handler.now())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to predict cycle")
	}
	return c.JSON(prediction)
}

func (handler *Handler) GetLatestPrediction(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	stored, found, err := handler.insightsService.LatestPrediction(c.UserContext(), user.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load prediction")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "no prediction computed yet")
	}
	return c.JSON(latestPredictionResponse{
		ID:         stored.ID,
		ComputedAt: stored.ComputedAt.UTC().Format(time.RFC3339),
		Prediction: json.RawMessage(stored.Payload),
	})
}

// GetPhase reports the phase for ?date=, defaulting to today.
func (handler *Handler) GetPhase(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := handler.now()
	date := now
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := handler.parseDay(raw)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
		date = parsed
	}

	report, err := handler.insightsService.Phase(c.UserContext(), user.ID, date, now)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to resolve cycle phase")
	}
	return c.JSON(report)
}
