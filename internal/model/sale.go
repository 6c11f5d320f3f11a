package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale statuses
const (
	SaleCompleted = "completed"
)

// Sale is a finalized checkout. It is written exactly once and never
// mutated afterwards; TotalAmount always equals the sum of its items'
// subtotals because both are computed server-side in the same transaction.
type Sale struct {
	BaseModel
	CashierID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Cashier       *User           `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
	ShiftID       *uuid.UUID      `gorm:"type:uuid;index" json:"shift_id,omitempty"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	PaymentMethod string          `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status        string          `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// SaleItem is one cart line of a sale. ProductID is a weak reference (the
// product may later be deleted or renamed); UnitPrice, Subtotal and
// ProductName are snapshots taken at checkout time.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
}

func (i *SaleItem) BeforeCreate(tx *gorm.DB) (err error) {
	i.ID = uuid.New()
	return
}
