package repository

import (
	"go-pos-backend/internal/model"

	"gorm.io/gorm"
)

// Migrate creates the schema. The partial unique index on shifts enforces
// one open shift per cashier at the storage layer; AutoMigrate cannot
// express a partial index, so it is created with raw SQL.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Product{}, &model.Sale{}, &model.SaleItem{}, &model.Shift{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	); err != nil {
		return err
	}

	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_shifts_open_cashier ON shifts (cashier_id) WHERE status = 'open'`,
	).Error
}
