package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/ovumcy-insights/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAuthEmailTaken     = errors.New("email already registered")
	ErrAuthRegisterFailed = errors.New("register failed")
	ErrAuthUserNotFound   = errors.New("user not found")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(ctx context.Context, email string) (bool, error)
	FindByNormalizedEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

func (service *AuthService) Register(ctx context.Context, emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(ctx, email)
	if err != nil {
		return models.User{}, ErrAuthRegisterFailed
	}
	if exists {
		return models.User{}, ErrAuthEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:             email,
		PasswordHash:      string(passwordHash),
		Goal:              models.GoalTrackingOnly,
		LutealPhaseDays:   models.DefaultLutealPhaseDays,
		PeriodLength:      models.DefaultPeriodLength,
		TemperatureSource: models.SourceOral,
		CreatedAt:         time.Now().UTC(),
	}
	if err := service.users.Create(ctx, &user); err != nil {
		return models.User{}, ErrAuthRegisterFailed
	}
	return user, nil
}

// Authenticate returns ErrAuthCredentialsInvalid for both an unknown email and
// a wrong password.
func (service *AuthService) Authenticate(ctx context.Context, emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

// ResetPassword replaces the password of the user with the given email. It
// backs the operator reset command, so no old password is required.
func (service *AuthService) ResetPassword(ctx context.Context, emailRaw string, newPassword string) error {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return ErrAuthCredentialsInvalid
	}

	user, err := service.users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrAuthUserNotFound, email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(ctx, user.ID, string(passwordHash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
