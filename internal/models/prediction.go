package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prediction is the latest persisted engine output for a user. Payload keeps
// the full JSON result so API reads do not need to recompute.
type Prediction struct {
	ID                   string     `gorm:"primaryKey;type:text"`
	UserID               uint       `gorm:"not null;uniqueIndex"`
	Method               string     `gorm:"not null"`
	ConfidenceLevel      int        `gorm:"not null"`
	PredictedPeriodStart *time.Time `gorm:"type:date"`
	PredictedOvulation   *time.Time `gorm:"type:date"`
	Payload              []byte     `gorm:"not null"`
	ComputedAt           time.Time  `gorm:"not null"`
}

func (prediction *Prediction) BeforeCreate(*gorm.DB) error {
	if prediction.ID == "" {
		prediction.ID = uuid.NewString()
	}
	return nil
}
