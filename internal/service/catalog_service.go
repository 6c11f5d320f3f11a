package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogService interface {
	CreateProduct(req *model.Product, userID, userName string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
	GetCategories() ([]string, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, db *gorm.DB, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		db:          db,
		wsHub:       hub,
	}
}

func (s *catalogService) CreateProduct(req *model.Product, userID, userName string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// SKU is optional, but must be unique when present
	if req.SKU != nil && *req.SKU != "" {
		existing, _ := s.productRepo.FindBySKU(*req.SKU)
		if existing != nil && existing.ID != uuid.Nil {
			return errors.New("SKU already exists")
		}
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	if uid, err := uuid.Parse(userID); err == nil {
		req.CreatedByUserID = &uid
		req.UpdatedByUserID = &uid
	}

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "product_created",
			"product": map[string]interface{}{
				"id":             req.ID,
				"name":           req.Name,
				"price":          req.Price,
				"stock_quantity": req.StockQuantity,
				"category":       req.Category,
			},
			"message": fmt.Sprintf("%s created product '%s'", userName, req.Name),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error) {
	var updatedProduct *model.Product

	// Lock the row so a catalog edit can't interleave with a checkout
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}

		oldStock := existing.StockQuantity

		existing.Name = req.Name
		existing.Price = req.Price
		existing.StockQuantity = req.StockQuantity
		existing.Category = req.Category
		existing.SKU = req.SKU
		existing.Barcode = req.Barcode
		existing.CostPrice = req.CostPrice
		existing.MinimumStock = req.MinimumStock
		existing.UpdatedBy = userID
		if uid, err := uuid.Parse(userID); err == nil {
			existing.UpdatedByUserID = &uid
		}

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updatedProduct = &existing

		go func() {
			payload := map[string]interface{}{
				"type":   "stock_update",
				"action": "product_updated",
				"product": map[string]interface{}{
					"id":        existing.ID,
					"name":      existing.Name,
					"old_stock": oldStock,
					"new_stock": existing.StockQuantity,
					"price":     existing.Price,
				},
				"message": fmt.Sprintf("%s updated product '%s'", userName, existing.Name),
			}
			msg, _ := json.Marshal(payload)
			s.wsHub.Broadcast <- msg
		}()

		return nil
	})

	if err != nil {
		return nil, err
	}

	return updatedProduct, nil
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetCategories() ([]string, error) {
	return s.productRepo.Categories()
}
