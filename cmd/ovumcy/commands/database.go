package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/ovumcy-insights/internal/db"
	"gorm.io/gorm"
)

// openDatabase opens the SQLite file; the returned func closes the pool and
// must run before the command returns.
func openDatabase(dbPath string, logger zerolog.Logger) (*gorm.DB, func(), error) {
	database, err := db.OpenSQLite(dbPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("database handle failed: %w", err)
	}

	closeDatabase := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Error().Err(err).Msg("database close failed")
		}
	}
	return database, closeDatabase, nil
}
