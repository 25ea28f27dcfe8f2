package models

import "time"

const (
	DefaultPeriodLength    = 5
	DefaultLutealPhaseDays = 14

	GoalTryingToConceive  = "trying_to_conceive"
	GoalAvoidingPregnancy = "avoiding_pregnancy"
	GoalTrackingOnly      = "tracking_only"

	SourceOral     = "oral"
	SourceVaginal  = "vaginal"
	SourceRectal   = "rectal"
	SourceWearable = "wearable"
)

type User struct {
	ID                uint      `gorm:"primaryKey"`
	Email             string    `gorm:"uniqueIndex;not null"`
	PasswordHash      string    `gorm:"not null"`
	Age               int       `gorm:"not null;default:0"`
	Goal              string    `gorm:"not null;default:tracking_only"`
	LutealPhaseDays   int       `gorm:"not null;default:14"`
	PeriodLength      int       `gorm:"not null;default:5"`
	TemperatureSource string    `gorm:"not null;default:oral"`
	CreatedAt         time.Time `gorm:"not null"`
}
