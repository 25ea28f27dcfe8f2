package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/ovumcy-insights/internal/db"
	"github.com/terraincognita07/ovumcy-insights/internal/services"
	"gorm.io/gorm"
)

// RunRecomputeCommand refreshes the stored prediction of every user.
func RunRecomputeCommand(ctx context.Context, database *gorm.DB, location *time.Location, workers int, now time.Time, logger zerolog.Logger) (services.RecomputeSummary, error) {
	repositories := db.NewRepositories(database)
	userIDs, err := repositories.Users.ListIDs(ctx)
	if err != nil {
		return services.RecomputeSummary{}, fmt.Errorf("list users: %w", err)
	}

	insights := services.NewInsightsService(
		repositories.Users,
		repositories.DailyLogs,
		repositories.Temperatures,
		repositories.Predictions,
		location,
		logger,
	)

	started := time.Now()
	summary, err := insights.RecomputeAll(ctx, userIDs, workers, now)
	logger.Info().
		Int("users", len(userIDs)).
		Int("workers", workers).
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Dur("elapsed", time.Since(started)).
		Msg("recompute finished")
	return summary, err
}
