package database

import (
	migrate "github.com/rubenv/sql-migrate"
)

const migrationDialect = "sqlite3"

var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "0001_create_service_requests",
			Up: []string{
				`CREATE TABLE IF NOT EXISTS service_requests (
					id                VARCHAR(64)  NOT NULL PRIMARY KEY,
					appliance_type    VARCHAR(32)  NOT NULL,
					issue_description TEXT         NOT NULL,
					contact_name      VARCHAR(255) NOT NULL,
					contact_email     VARCHAR(255) NOT NULL,
					contact_phone     VARCHAR(64)  NOT NULL,
					address           TEXT         NOT NULL,
					status            VARCHAR(20)  NOT NULL DEFAULT 'pending'
						CHECK (status IN ('pending', 'in-progress', 'completed', 'cancelled')),
					notes             TEXT         NOT NULL DEFAULT '',
					created_at        DATETIME     NOT NULL,
					updated_at        DATETIME     NOT NULL,
					deleted_at        DATETIME
				)`,
				`CREATE INDEX IF NOT EXISTS idx_service_requests_created_at ON service_requests (created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_service_requests_status ON service_requests (status)`,
				`CREATE INDEX IF NOT EXISTS idx_service_requests_appliance_type ON service_requests (appliance_type)`,
				`CREATE INDEX IF NOT EXISTS idx_service_requests_deleted_at ON service_requests (deleted_at)`,
			},
			Down: []string{
				`DROP TABLE IF EXISTS service_requests`,
			},
		},
	},
}

// Migrate applies pending migrations and returns how many ran.
func (s *DB) Migrate() (int, error) {
	log := s.log.Function("Migrate")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	applied, err := migrate.Exec(sqlDB, migrationDialect, migrations, migrate.Up)
	if err != nil {
		return applied, log.Err("failed to apply migrations", err)
	}

	log.Info("Migrations applied", "count", applied)
	return applied, nil
}

// Rollback reverts up to steps migrations.
func (s *DB) Rollback(steps int) (int, error) {
	log := s.log.Function("Rollback")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	reverted, err := migrate.ExecMax(sqlDB, migrationDialect, migrations, migrate.Down, steps)
	if err != nil {
		return reverted, log.Err("failed to roll back migrations", err, "steps", steps)
	}

	log.Info("Migrations rolled back", "count", reverted)
	return reverted, nil
}
