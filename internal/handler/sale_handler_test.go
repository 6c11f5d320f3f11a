package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"
	"go-pos-backend/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheckoutService struct {
	sale *model.Sale
	err  error
}

func (s *stubCheckoutService) Checkout(req *service.CheckoutRequest, cashierID, cashierName string) (*model.Sale, error) {
	return s.sale, s.err
}

func (s *stubCheckoutService) GetAllSales() ([]model.Sale, error) {
	return nil, s.err
}

func (s *stubCheckoutService) GetSaleByID(id uuid.UUID) (*model.Sale, error) {
	return s.sale, s.err
}

// The prometheus default registry rejects duplicate registration, so the
// handler tests share one metrics instance.
var saleTestMetrics = metrics.NewCheckoutMetrics()

func newSaleApp(svc service.CheckoutService) *fiber.App {
	app := fiber.New()
	h := NewSaleHandler(svc, saleTestMetrics)
	app.Post("/api/v1/sales", h.CreateSale)
	return app
}

func postSale(t *testing.T, app *fiber.App) (int, map[string]interface{}) {
	t.Helper()

	body := `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":1}],"payment_method":"cash"}`
	req := httptest.NewRequest("POST", "/api/v1/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestCreateSale_StorageErrorIsInternalServerError(t *testing.T) {
	app := newSaleApp(&stubCheckoutService{err: errors.New("pq: connection refused")})

	status, body := postSale(t, app)

	assert.Equal(t, 500, status)
	assert.Equal(t, "Internal Server Error", body["error"])
}

func TestCreateSale_InsufficientStockIsConflict(t *testing.T) {
	app := newSaleApp(&stubCheckoutService{err: repository.ErrInsufficientStock})

	status, body := postSale(t, app)

	assert.Equal(t, 409, status)
	assert.Equal(t, repository.ErrInsufficientStock.Error(), body["error"])
}

func TestCreateSale_UnknownProductIsNotFound(t *testing.T) {
	app := newSaleApp(&stubCheckoutService{err: service.ErrProductNotFound})

	status, _ := postSale(t, app)

	assert.Equal(t, 404, status)
}

func TestCreateSale_ValidationErrorIsBadRequest(t *testing.T) {
	app := newSaleApp(&stubCheckoutService{
		err: fmt.Errorf("%w: field 'Quantity' failed on tag 'gt'", service.ErrValidation),
	})

	status, body := postSale(t, app)

	assert.Equal(t, 400, status)
	assert.Contains(t, body["error"], "Quantity")
}

func TestCreateSale_Success(t *testing.T) {
	sale := &model.Sale{
		TotalAmount:   decimal.RequireFromString("7.00"),
		PaymentMethod: "cash",
		Status:        model.SaleCompleted,
		Items: []model.SaleItem{
			{ProductName: "Coffee", Quantity: 2, UnitPrice: decimal.RequireFromString("3.50"), Subtotal: decimal.RequireFromString("7.00")},
		},
	}
	sale.ID = uuid.New()
	app := newSaleApp(&stubCheckoutService{sale: sale})

	status, body := postSale(t, app)

	assert.Equal(t, 201, status)
	assert.Equal(t, true, body["success"])
}
