package db

import (
	"context"

	"github.com/terraincognita07/ovumcy-insights/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PredictionRepository struct {
	database *gorm.DB
}

func NewPredictionRepository(database *gorm.DB) *PredictionRepository {
	return &PredictionRepository{database: database}
}

func (repo *PredictionRepository) FindLatest(ctx context.Context, userID uint) (models.Prediction, bool, error) {
	prediction := models.Prediction{}
	result := repo.database.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&prediction)
	if result.Error != nil {
		return models.Prediction{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Prediction{}, false, nil
	}
	return prediction, true, nil
}

// Save replaces the stored prediction for the user, keeping one row per user.
func (repo *PredictionRepository) Save(ctx context.Context, prediction *models.Prediction) error {
	return repo.database.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"id",
			"method",
			"confidence_level",
			"predicted_period_start",
			"predicted_ovulation",
			"payload",
			"computed_at",
		}),
	}).Create(prediction).Error
}
