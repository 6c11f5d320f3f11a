package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name          string           `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Price         decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price" validate:"gte=0"`
	StockQuantity int              `gorm:"not null;default:0" json:"stock_quantity" validate:"gte=0"`
	Category      string           `gorm:"type:varchar(100);index" json:"category,omitempty"`
	SKU           *string          `gorm:"type:varchar(50);uniqueIndex" json:"sku,omitempty"`
	Barcode       *string          `gorm:"type:varchar(100)" json:"barcode,omitempty"`
	CostPrice     *decimal.Decimal `gorm:"type:numeric(12,2)" json:"cost_price,omitempty"`
	MinimumStock  int              `gorm:"default:0" json:"minimum_stock"`

	// User tracking
	CreatedByUserID *uuid.UUID `gorm:"type:uuid;index" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *uuid.UUID `gorm:"type:uuid" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User      `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User      `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`
}

// IsLowStock reports whether the product dropped to or below its reorder threshold
func (p *Product) IsLowStock() bool {
	return p.MinimumStock > 0 && p.StockQuantity <= p.MinimumStock
}
