package db

import (
	"context"
	"time"

	"github.com/terraincognita07/ovumcy-insights/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TemperatureRepository struct {
	database *gorm.DB
}

func NewTemperatureRepository(database *gorm.DB) *TemperatureRepository {
	return &TemperatureRepository{database: database}
}

func (repo *TemperatureRepository) ListByUserSince(ctx context.Context, userID uint, from time.Time) ([]models.TemperatureReading, error) {
	query := repo.database.WithContext(ctx).Where("user_id = ?", userID)
	if !from.IsZero() {
		query = query.Where("date >= ?", from)
	}

	readings := make([]models.TemperatureReading, 0)
	if err := query.Order("date ASC").Find(&readings).Error; err != nil {
		return nil, err
	}
	return readings, nil
}

// Upsert keeps one reading per user and day; a second reading replaces the first.
func (repo *TemperatureRepository) Upsert(ctx context.Context, reading *models.TemperatureReading) error {
	return repo.database.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"celsius", "source", "updated_at"}),
	}).Create(reading).Error
}
