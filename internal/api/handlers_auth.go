package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ovumcy-insights/internal/models"
	"github.com/terraincognita07/ovumcy-insights/internal/services"
)

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expires_at"`
	User      profileView `json:"user"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Register(c.UserContext(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthCredentialsInvalid) {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
		return handler.respondServiceError(c, err, "failed to create account")
	}
	return handler.respondWithToken(c, fiber.StatusCreated, &user)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	now := handler.now()
	limiterKey := loginLimiterKey(c, services.NormalizeAuthEmail(input.Email))
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	user, err := handler.authService.Authenticate(c.UserContext(), input.Email, input.Password)
	if err != nil {
		handler.loginLimiter.fail(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	handler.loginLimiter.clear(limiterKey)
	return handler.respondWithToken(c, fiber.StatusOK, &user)
}

func (handler *Handler) respondWithToken(c *fiber.Ctx, status int, user *models.User) error {
	token, expiresAt, err := handler.buildToken(user, handler.now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Status(status).JSON(tokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      newProfileView(user),
	})
}
