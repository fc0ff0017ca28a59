// Package inventory provides a gorm-backed implementation of the
// InventoryReservation port. Stock levels live in a single table; reserve and
// release are conditional row updates, so two concurrent reservations of the
// last units cannot both succeed.
package inventory

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockItemDTO represents the available stock of one product.
type StockItemDTO struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Available int       `gorm:"type:int;not null"`
}

// TableName specifies the database table name for stock levels.
func (StockItemDTO) TableName() string {
	return "stock_items"
}

// GormInventory implements InventoryReservation over the stock table.
type GormInventory struct {
	db *gorm.DB
}

// NewGormInventory creates a gorm-backed inventory adapter.
func NewGormInventory(db *gorm.DB) *GormInventory {
	return &GormInventory{db: db}
}

// Reserve decrements available stock for a product. The decrement is guarded
// by the availability check in the same statement; an unknown product or one
// with too few units yields *InsufficientStockError.
func (i *GormInventory) Reserve(ctx context.Context, productID kernel.UUID, quantity int) error {
	if err := productID.Validate(); err != nil {
		return err
	}

	result := i.db.WithContext(ctx).Model(&StockItemDTO{}).
		Where("product_id = ? AND available >= ?", productID.Bytes(), quantity).
		UpdateColumn("available", gorm.Expr("available - ?", quantity))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ports.NewInsufficientStockError(productID)
	}

	return nil
}

// Release returns previously reserved units to the pool.
func (i *GormInventory) Release(ctx context.Context, productID kernel.UUID, quantity int) error {
	if err := productID.Validate(); err != nil {
		return err
	}

	return i.db.WithContext(ctx).Model(&StockItemDTO{}).
		Where("product_id = ?", productID.Bytes()).
		UpdateColumn("available", gorm.Expr("available + ?", quantity)).Error
}
