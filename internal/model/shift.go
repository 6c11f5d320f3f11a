package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shift statuses
const (
	ShiftOpen   = "open"
	ShiftClosed = "closed"
)

// Shift is a cashier's cash-drawer session. A cashier opens it with the
// counted starting cash, runs sales against it, and closes it with the
// counted ending cash; TotalSales is rolled up from sales at close time.
type Shift struct {
	BaseModel
	CashierID uuid.UUID `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Cashier   *User     `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`

	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	StartingCash decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"starting_cash"`
	EndingCash   *decimal.Decimal `gorm:"type:numeric(12,2)" json:"ending_cash,omitempty"`
	TotalSales   *decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_sales,omitempty"`

	Status string `gorm:"type:varchar(10);not null;default:'open';index" json:"status"`
}

func (Shift) TableName() string {
	return "shifts"
}

// ShiftResponse for API responses
type ShiftResponse struct {
	ID           uuid.UUID        `json:"id"`
	CashierID    uuid.UUID        `json:"cashier_id"`
	Cashier      *UserResponse    `json:"cashier,omitempty"`
	StartTime    time.Time        `json:"start_time"`
	EndTime      *time.Time       `json:"end_time,omitempty"`
	StartingCash decimal.Decimal  `json:"starting_cash"`
	EndingCash   *decimal.Decimal `json:"ending_cash,omitempty"`
	TotalSales   *decimal.Decimal `json:"total_sales,omitempty"`
	Status       string           `json:"status"`
}

// ToResponse converts Shift to ShiftResponse
func (s *Shift) ToResponse() ShiftResponse {
	response := ShiftResponse{
		ID:           s.ID,
		CashierID:    s.CashierID,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		StartingCash: s.StartingCash,
		EndingCash:   s.EndingCash,
		TotalSales:   s.TotalSales,
		Status:       s.Status,
	}

	if s.Cashier != nil {
		cashierResp := s.Cashier.ToResponse()
		response.Cashier = &cashierResp
	}

	return response
}
