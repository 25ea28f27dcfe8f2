package db

import "gorm.io/gorm"

type Repositories struct {
	Users        *UserRepository
	DailyLogs    *DailyLogRepository
	Temperatures *TemperatureRepository
	Predictions  *PredictionRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(database),
		DailyLogs:    NewDailyLogRepository(database),
		Temperatures: NewTemperatureRepository(database),
		Predictions:  NewPredictionRepository(database),
	}
}
