package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckoutService interface {
	Checkout(req *CheckoutRequest, cashierID, cashierName string) (*model.Sale, error)
	GetAllSales() ([]model.Sale, error)
	GetSaleByID(id uuid.UUID) (*model.Sale, error)
}

// CheckoutLine is one cart line as submitted by the register UI.
// UnitPrice and Subtotal are the client's display snapshot; the
// authoritative price is re-read from the catalog inside the transaction.
type CheckoutLine struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
	Subtotal  decimal.Decimal `json:"subtotal" validate:"gte=0"`
}

type CheckoutRequest struct {
	Items         []CheckoutLine  `json:"items" validate:"required,min=1,dive"`
	TotalAmount   decimal.Decimal `json:"total_amount" validate:"gte=0"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
}

type checkoutService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	shiftRepo   repository.ShiftRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewCheckoutService(pRepo repository.ProductRepository, sRepo repository.SaleRepository, shRepo repository.ShiftRepository, db *gorm.DB, hub *ws.Hub) CheckoutService {
	return &checkoutService{
		productRepo: pRepo,
		saleRepo:    sRepo,
		shiftRepo:   shRepo,
		db:          db,
		wsHub:       hub,
	}
}

// Checkout finalizes a cart: it inserts the sale header and all line items
// and decrements every product's stock inside a single transaction, so a
// failure at any step leaves no partial sale behind. Unit prices, subtotals
// and the total are recomputed from the catalog; client-supplied amounts are
// never trusted.
func (s *checkoutService) Checkout(req *CheckoutRequest, cashierID, cashierName string) (*model.Sale, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	cashier, err := uuid.Parse(cashierID)
	if err != nil {
		return nil, ErrInvalidCashier
	}

	var sale *model.Sale
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		// Stamp the cashier's open shift when one exists; checkout does
		// not require one.
		var shiftID *uuid.UUID
		if shift, err := s.shiftRepo.FindOpenByCashier(cashier); err == nil {
			shiftID = &shift.ID
		}

		// Lock products in a stable order so two carts covering the same
		// products cannot deadlock each other.
		lines := make([]CheckoutLine, len(req.Items))
		copy(lines, req.Items)
		sort.Slice(lines, func(i, j int) bool {
			return bytes.Compare(lines[i].ProductID[:], lines[j].ProductID[:]) < 0
		})

		items := make([]model.SaleItem, 0, len(lines))
		total := decimal.Zero

		for _, line := range lines {
			var product model.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}

			if !line.UnitPrice.IsZero() && !line.UnitPrice.Equal(product.Price) {
				log.Printf("checkout: client price %s differs from catalog price %s for product %s",
					line.UnitPrice, product.Price, product.ID)
			}

			subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			productID := product.ID
			items = append(items, model.SaleItem{
				ProductID:   &productID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   product.Price,
				Subtotal:    subtotal,
			})
			total = total.Add(subtotal)

			if err := s.productRepo.DecrementStock(tx, product.ID, line.Quantity); err != nil {
				return err
			}
		}

		sale = &model.Sale{
			CashierID:     cashier,
			ShiftID:       shiftID,
			TotalAmount:   total,
			PaymentMethod: req.PaymentMethod,
			Status:        model.SaleCompleted,
			Items:         items,
		}
		sale.CreatedBy = cashierID
		sale.UpdatedBy = cashierID

		return s.saleRepo.Create(tx, sale)
	})

	if txErr != nil {
		return nil, txErr
	}

	// Broadcast after commit so a rollback never announces a sale
	go func() {
		soldItems := make([]map[string]interface{}, len(sale.Items))
		for i, item := range sale.Items {
			soldItems[i] = map[string]interface{}{
				"product_id":   item.ProductID,
				"product_name": item.ProductName,
				"quantity":     item.Quantity,
			}
		}
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "sale_completed",
			"sale": map[string]interface{}{
				"id":           sale.ID,
				"total_amount": sale.TotalAmount,
				"items":        soldItems,
			},
			"cashier": map[string]interface{}{
				"id":   cashierID,
				"name": cashierName,
			},
			"message": fmt.Sprintf("%s completed a sale of %d item(s)", cashierName, len(sale.Items)),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	return sale, nil
}

func (s *checkoutService) GetAllSales() ([]model.Sale, error) {
	return s.saleRepo.FindAll()
}

func (s *checkoutService) GetSaleByID(id uuid.UUID) (*model.Sale, error) {
	return s.saleRepo.FindByID(id)
}
