package initialize

import (
	"applianceassist/internal/database"
	"applianceassist/internal/logger"
	. "applianceassist/internal/models"
)

// InitializeTables applies pending migrations and checks the orders table is
// reachable through GORM.
func InitializeTables(db database.DB, log logger.Logger) (int, error) {
	log = log.Function("InitializeTables")
	log.Info("Initializing tables")

	applied, err := db.Migrate()
	if err != nil {
		return applied, log.Err("failed to apply migrations", err)
	}

	if !db.SQL.Migrator().HasTable(&ServiceRequest{}) {
		return applied, log.Error("service_requests table is missing after migration")
	}

	log.Info("Table initialization complete", "applied", applied)
	return applied, nil
}
