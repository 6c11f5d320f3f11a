package repository

import (
	"time"

	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindAll() ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindBetween(startDate, endDate time.Time) ([]model.Sale, error)
	GetSalesSummary(startDate, endDate time.Time) ([]SalesSummaryData, error)
	GetTopProducts(startDate, endDate time.Time, limit int) ([]TopProductData, error)
	TotalForCashierBetween(cashierID uuid.UUID, startDate, endDate time.Time) (decimal.Decimal, error)
}

// SalesSummaryData for per-day revenue charts
type SalesSummaryData struct {
	Date    string          `json:"date"`
	Sales   int64           `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopProductData ranks products by quantity sold
type TopProductData struct {
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Create inserts the sale header together with its items. It takes a *gorm.DB
// so the caller can run it inside the checkout transaction.
func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Items").Preload("Cashier").Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Items").Preload("Cashier").First(&sale, "id = ?", id).Error
	return &sale, err
}

func (r *saleRepo) FindBetween(startDate, endDate time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Items").Preload("Cashier").
		Where("created_at >= ? AND created_at < ?", startDate, endDate).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) GetSalesSummary(startDate, endDate time.Time) ([]SalesSummaryData, error) {
	var results []SalesSummaryData

	rows, err := r.db.Model(&model.Sale{}).
		Select(`
			DATE(created_at) as date,
			COUNT(*) as sales,
			COALESCE(SUM(total_amount), 0) as revenue
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data SalesSummaryData
		if err := rows.Scan(&data.Date, &data.Sales, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *saleRepo) GetTopProducts(startDate, endDate time.Time, limit int) ([]TopProductData, error) {
	var results []TopProductData

	rows, err := r.db.Model(&model.SaleItem{}).
		Select(`
			sale_items.product_name,
			COALESCE(SUM(sale_items.quantity), 0) as quantity,
			COALESCE(SUM(sale_items.subtotal), 0) as revenue
		`).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.created_at BETWEEN ? AND ?", startDate, endDate).
		Group("sale_items.product_name").
		Order("quantity DESC").
		Limit(limit).
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data TopProductData
		if err := rows.Scan(&data.ProductName, &data.Quantity, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

// TotalForCashierBetween sums a cashier's completed sales in a window.
// Used for the shift close rollup.
func (r *saleRepo) TotalForCashierBetween(cashierID uuid.UUID, startDate, endDate time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.Sale{}).
		Where("cashier_id = ? AND created_at >= ? AND created_at < ?", cashierID, startDate, endDate).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}
