package api

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/ovumcy-insights/internal/db"
	"github.com/terraincognita07/ovumcy-insights/internal/services"
	"gorm.io/gorm"
)

const authTokenTTL = 7 * 24 * time.Hour

type Handler struct {
	secretKey          []byte
	location           *time.Location
	logger             zerolog.Logger
	now                func() time.Time
	users              *db.UserRepository
	authService        *services.AuthService
	dayService         *services.DayService
	temperatureService *services.TemperatureService
	insightsService    *services.InsightsService
	profileService     *services.ProfileService
	loginLimiter       *attemptLimiter
}

func NewHandler(database *gorm.DB, secret string, location *time.Location, logger zerolog.Logger) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if secret == "" {
		return nil, errors.New("secret key is required")
	}
	if location == nil {
		location = time.UTC
	}

	repositories := db.NewRepositories(database)
	return &Handler{
		secretKey:          []byte(secret),
		location:           location,
		logger:             logger.With().Str("component", "api").Logger(),
		now:                time.Now,
		users:              repositories.Users,
		authService:        services.NewAuthService(repositories.Users),
		dayService:         services.NewDayService(repositories.DailyLogs, location),
		temperatureService: services.NewTemperatureService(repositories.Temperatures, location),
		insightsService: services.NewInsightsService(
			repositories.Users,
			repositories.DailyLogs,
			repositories.Temperatures,
			repositories.Predictions,
			location,
			logger,
		),
		profileService: services.NewProfileService(repositories.Users),
		loginLimiter:   newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
	}, nil
}
