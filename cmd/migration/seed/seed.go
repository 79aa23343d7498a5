package seed

import (
	"context"
	"time"

	"applianceassist/config"
	"applianceassist/internal/database"
	"applianceassist/internal/logger"
	. "applianceassist/internal/models"
)

type demoOrder struct {
	appliance ApplianceType
	issue     string
	name      string
	email     string
	phone     string
	address   string
	status    Status
	notes     string
	age       time.Duration
}

var demoOrders = []demoOrder{
	{
		appliance: ApplianceFridge,
		issue:     "Fridge is not cooling, freezer section is fine.",
		name:      "Alice Wonderland",
		email:     "alice@example.com",
		phone:     "555-123-4567",
		address:   "123 Rabbit Hole Lane, Wonderland",
		status:    StatusPending,
		age:       2 * time.Hour,
	},
	{
		appliance: ApplianceWashingMachine,
		issue:     "Washing machine makes a loud banging noise during spin cycle.",
		name:      "Bob The Builder",
		email:     "bob@example.com",
		phone:     "555-987-6543",
		address:   "456 Construction Site, Builderville",
		status:    StatusInProgress,
		notes:     "Technician assigned: John Doe. Parts ordered.",
		age:       26 * time.Hour,
	},
	{
		appliance: ApplianceFilter,
		issue:     "Water filter needs replacement, indicator light is red.",
		name:      "Charlie Brown",
		email:     "charlie@example.com",
		phone:     "555-555-5555",
		address:   "789 Peanuts Street, Cartoonland",
		status:    StatusCompleted,
		notes:     "Filter replaced. Customer satisfied.",
		age:       72 * time.Hour,
	},
	{
		appliance: ApplianceOven,
		issue:     "Oven not heating up to the set temperature.",
		name:      "Diana Prince",
		email:     "diana@example.com",
		phone:     "555-234-5678",
		address:   "1 Paradise Island, Themyscira",
		status:    StatusCancelled,
		notes:     "Customer cancelled, bought a new oven.",
		age:       120 * time.Hour,
	},
}

// Seed inserts demo orders into an empty development database. reset wipes
// existing orders and flushes the cache first.
func Seed(ctx context.Context, db database.DB, config config.Config, reset bool, log logger.Logger) (int, error) {
	log = log.Function("seed")

	if config.IsProduction() {
		log.Warn("Refusing to seed a production database")
		return 0, nil
	}

	if reset {
		if err := db.SQLWithContext(ctx).Unscoped().Where("1 = 1").Delete(&ServiceRequest{}).Error; err != nil {
			return 0, log.Err("failed to clear service requests", err)
		}
		if err := db.FlushAllCaches(ctx); err != nil {
			return 0, log.Err("failed to flush caches", err)
		}
	}

	var count int64
	if err := db.SQLWithContext(ctx).Model(&ServiceRequest{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count service requests", err)
	}
	if count > 0 {
		log.Info("Service requests already present, skipping seed", "count", count)
		return 0, nil
	}

	log.Info("Seeding development data")

	tx := db.SQLWithContext(ctx).Begin()
	defer database.TXDefer(tx, log)

	now := time.Now().UTC()
	for _, demo := range demoOrders {
		createdAt := now.Add(-demo.age)
		updatedAt := createdAt
		if demo.status != StatusPending {
			updatedAt = createdAt.Add(time.Hour)
		}

		order := ServiceRequest{
			BaseUUIDModel: BaseUUIDModel{
				CreatedAt: createdAt,
				UpdatedAt: updatedAt,
			},
			ApplianceType:    demo.appliance,
			IssueDescription: demo.issue,
			ContactName:      demo.name,
			ContactEmail:     demo.email,
			ContactPhone:     demo.phone,
			Address:          demo.address,
			Status:           demo.status,
			Notes:            demo.notes,
		}

		if err := tx.Create(&order).Error; err != nil {
			_ = tx.AddError(err)
			return 0, log.Err("failed to create service request", err, "contactName", demo.name)
		}
		log.Debug("Seeded service request", "id", order.ID, "status", order.Status)
	}

	return len(demoOrders), nil
}
