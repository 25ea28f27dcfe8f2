package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ovumcy-insights/internal/models"
	"github.com/terraincognita07/ovumcy-insights/internal/services"
)

type dayPayload struct {
	IsPeriod bool   `json:"is_period"`
	Flow     string `json:"flow"`
	Notes    string `json:"notes"`
}

type dayView struct {
	Date     string `json:"date"`
	IsPeriod bool   `json:"is_period"`
	Flow     string `json:"flow"`
	Notes    string `json:"notes,omitempty"`
}

func newDayView(entry models.DailyLog) dayView {
	return dayView{
		Date:     formatDay(entry.Date),
		IsPeriod: entry.IsPeriod,
		Flow:     entry.Flow,
		Notes:    entry.Notes,
	}
}

func (handler *Handler) ListDays(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	logs, err := handler.dayService.FetchAllLogsForUser(c.UserContext(), user.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load days")
	}
	views := make([]dayView, 0, len(logs))
	for _, entry := range logs {
		if services.DayHasData(entry) {
			views = append(views, newDayView(entry))
		}
	}
	return c.JSON(views)
}

func (handler *Handler) UpsertDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := handler.parseDay(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	var payload dayPayload
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.dayService.UpsertDayEntry(c.UserContext(), user.ID, day, services.DayEntryInput{
		IsPeriod: payload.IsPeriod,
		Flow:     payload.Flow,
		Notes:    payload.Notes,
	}, handler.now())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to save day")
	}
	return c.JSON(newDayView(entry))
}

func (handler *Handler) DeleteDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := handler.parseDay(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := handler.dayService.DeleteDay(c.UserContext(), user.ID, day); err != nil {
		return handler.respondServiceError(c, err, "failed to delete day")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
