package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"inpaygate/internal/models"
)

// Migrate ensures the ledger tables exist, including the unique index on the
// transaction reference column that closes the idempotency race.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

func allModels() []interface{} {
	return []interface{}{
		&models.Invoice{},
		&models.Client{},
		&models.Transaction{},
		&models.Currency{},
		&models.GatewayLog{},
	}
}
