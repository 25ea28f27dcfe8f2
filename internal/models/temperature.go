package models

import "time"

// TemperatureReading is one basal body temperature sample, stored in °C.
type TemperatureReading struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:uidx_temperature_user_date"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uidx_temperature_user_date"`
	Celsius   float64   `gorm:"not null"`
	Source    string    `gorm:"not null;default:oral"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
