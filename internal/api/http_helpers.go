package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ovumcy-insights/internal/analytics"
	"github.com/terraincognita07/ovumcy-insights/internal/services"
)

const dayLayout = "2006-01-02"

var errDateInvalid = errors.New("date must be YYYY-MM-DD")

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// parseDay reads a YYYY-MM-DD value as a calendar day in the handler's zone.
func (handler *Handler) parseDay(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(dayLayout, strings.TrimSpace(raw), handler.location)
	if err != nil {
		return time.Time{}, errDateInvalid
	}
	return parsed, nil
}

var badRequestErrors = []error{
	errDateInvalid,
	analytics.ErrOutOfOrder,
	services.ErrWeakPassword,
	services.ErrDayDateOutOfRange,
	services.ErrDayFlowInvalid,
	services.ErrTemperatureInvalid,
	services.ErrTemperatureUnitInvalid,
	services.ErrTemperatureSourceBad,
	services.ErrTemperatureDateOutRange,
	services.ErrProfileAgeInvalid,
	services.ErrProfileGoalInvalid,
	services.ErrProfileLutealInvalid,
	services.ErrProfilePeriodInvalid,
	services.ErrProfileSourceInvalid,
}

// respondServiceError maps service and engine errors to a status. Anything
// unrecognised is logged and hidden behind fallback.
func (handler *Handler) respondServiceError(c *fiber.Ctx, err error, fallback string) error {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return apiError(c, fiber.StatusBadRequest, target.Error())
		}
	}

	switch {
	case errors.Is(err, analytics.ErrOutOfRange):
		return apiError(c, fiber.StatusUnprocessableEntity, "cycle history is outside the predictable range")
	case errors.Is(err, services.ErrInsightsNoCycleData):
		return apiError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAuthEmailTaken):
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	handler.logger.Error().Err(err).Str("path", c.Path()).Msg(fallback)
	return apiError(c, fiber.StatusInternalServerError, fallback)
}

func formatDay(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(dayLayout)
}
