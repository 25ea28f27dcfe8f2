package services

import (
	"context"
	"errors"

	"github.com/terraincognita07/ovumcy-insights/internal/analytics"
	"github.com/terraincognita07/ovumcy-insights/internal/models"
)

const (
	minProfileAge = 10
	maxProfileAge = 60
	minLutealDays = 10
	maxLutealDays = 18
)

var (
	ErrProfileAgeInvalid    = errors.New("age must be 0 (unknown) or between 10 and 60")
	ErrProfileGoalInvalid   = errors.New("goal is invalid")
	ErrProfileLutealInvalid = errors.New("luteal phase must be between 10 and 18 days")
	ErrProfilePeriodInvalid = errors.New("period length must be between 1 and 14 days")
	ErrProfileSourceInvalid = errors.New("temperature source is invalid")
	ErrProfileUpdateFailed  = errors.New("update profile failed")
)

// ProfileInput carries optional updates; nil fields are left unchanged.
type ProfileInput struct {
	Age               *int
	Goal              *string
	LutealPhaseDays   *int
	PeriodLength      *int
	TemperatureSource *string
}

type ProfileUserRepository interface {
	FindByID(ctx context.Context, userID uint) (models.User, error)
	UpdateProfile(ctx context.Context, userID uint, updates map[string]any) error
}

type ProfileService struct {
	users ProfileUserRepository
}

func NewProfileService(users ProfileUserRepository) *ProfileService {
	return &ProfileService{users: users}
}

func (service *ProfileService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (models.User, error) {
	updates, err := ProfileUpdates(input)
	if err != nil {
		return models.User{}, err
	}
	if len(updates) > 0 {
		if err := service.users.UpdateProfile(ctx, userID, updates); err != nil {
			return models.User{}, ErrProfileUpdateFailed
		}
	}

	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, ErrProfileUpdateFailed
	}
	return user, nil
}

// ProfileUpdates validates the input and returns the column updates to apply.
func ProfileUpdates(input ProfileInput) (map[string]any, error) {
	updates := make(map[string]any)
	if input.Age != nil {
		age := *input.Age
		if age != 0 && (age < minProfileAge || age > maxProfileAge) {
			return nil, ErrProfileAgeInvalid
		}
		updates["age"] = age
	}
	if input.Goal != nil {
		goal, ok := analytics.ParseUserGoal(*input.Goal)
		if !ok {
			return nil, ErrProfileGoalInvalid
		}
		updates["goal"] = string(goal)
	}
	if input.LutealPhaseDays != nil {
		days := *input.LutealPhaseDays
		if days < minLutealDays || days > maxLutealDays {
			return nil, ErrProfileLutealInvalid
		}
		updates["luteal_phase_days"] = days
	}
	if input.PeriodLength != nil {
		if !analytics.IsValidPeriodLength(*input.PeriodLength) {
			return nil, ErrProfilePeriodInvalid
		}
		updates["period_length"] = *input.PeriodLength
	}
	if input.TemperatureSource != nil {
		source, ok := analytics.ParseMeasurementSource(*input.TemperatureSource)
		if !ok {
			return nil, ErrProfileSourceInvalid
		}
		updates["temperature_source"] = string(source)
	}
	return updates, nil
}
