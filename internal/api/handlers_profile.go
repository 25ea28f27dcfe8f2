package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ovumcy-insights/internal/models"
	"github.com/terraincognita07/ovumcy-insights/internal/services"
)

type profileView struct {
	ID                uint   `json:"id"`
	Email             string `json:"email"`
	Age               int    `json:"age"`
	Goal              string `json:"goal"`
	LutealPhaseDays   int    `json:"luteal_phase_days"`
	PeriodLength      int    `json:"period_length"`
	TemperatureSource string `json:"temperature_source"`
}

type profileInput struct {
	Age               *int    `json:"age"`
	Goal              *string `json:"goal"`
	LutealPhaseDays   *int    `json:"luteal_phase_days"`
	PeriodLength      *int    `json:"period_length"`
	TemperatureSource *string `json:"temperature_source"`
}

func newProfileView(user *models.User) profileView {
	return profileView{
		ID:                user.ID,
		Email:             user.Email,
		Age:               user.Age,
		Goal:              user.Goal,
		LutealPhaseDays:   user.LutealPhaseDays,
		PeriodLength:      user.PeriodLength,
		TemperatureSource: user.TemperatureSource,
	}
}

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(newProfileView(user))
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input profileInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	updated, err := handler.profileService.UpdateProfile(c.UserContext(), user.ID, services.ProfileInput{
		Age:               input.Age,
		Goal:              input.Goal,
		LutealPhaseDays:   input.LutealPhaseDays,
		PeriodLength:      input.PeriodLength,
		TemperatureSource: input.TemperatureSource,
	})
	if err != nil {
		return handler.respondServiceError(c, err, "failed to update profile")
	}
	return c.JSON(newProfileView(&updated))
}
