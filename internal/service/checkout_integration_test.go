package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("pos"),
		tcpostgres.WithPassword("pos"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pgContainer)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, repository.Migrate(db))

	return db
}

type checkoutEnv struct {
	db          *gorm.DB
	svc         CheckoutService
	shiftSvc    ShiftService
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
}

func newCheckoutEnv(t *testing.T) *checkoutEnv {
	db := setupTestDB(t)

	hub := ws.NewHub()
	go hub.Run()

	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	shiftRepo := repository.NewShiftRepo(db)

	return &checkoutEnv{
		db:          db,
		svc:         NewCheckoutService(productRepo, saleRepo, shiftRepo, db, hub),
		shiftSvc:    NewShiftService(shiftRepo, saleRepo),
		productRepo: productRepo,
		saleRepo:    saleRepo,
	}
}

func (e *checkoutEnv) createCashier(t *testing.T) *model.User {
	t.Helper()
	user := &model.User{
		Email:    uuid.NewString() + "@example.com",
		FullName: "Test Cashier",
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *checkoutEnv) createProduct(t *testing.T, name, price string, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func line(productID uuid.UUID, quantity int, unitPrice string) CheckoutLine {
	price := decimal.RequireFromString(unitPrice)
	return CheckoutLine{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: price,
		Subtotal:  price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func TestCheckout_CompletesSaleAndDecrementsStock(t *testing.T) {
	env := newCheckoutEnv(t)
	cashier := env.createCashier(t)
	p1 := env.createProduct(t, "Coffee", "3.50", 10)
	p2 := env.createProduct(t, "Mineral Water", "10.00", 5)

	req := &CheckoutRequest{
		Items: []CheckoutLine{
			line(p1.ID, 2, "3.50"),
			line(p2.ID, 1, "10.00"),
		},
		TotalAmount:   decimal.RequireFromString("17.00"),
		PaymentMethod: "cash",
	}

	sale, err := env.svc.Checkout(req, cashier.ID.String(), cashier.FullName)
	require.NoError(t, err)
	require.NotNil(t, sale)

	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("17.00")),
		"expected 17.00, got %s", sale.TotalAmount)
	assert.Equal(t, cashier.ID, sale.CashierID)
	assert.Equal(t, model.SaleCompleted, sale.Status)

	// Header and items land together
	stored, err := env.saleRepo.FindByID(sale.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	subtotals := map[string]decimal.Decimal{}
	for _, item := range stored.Items {
		subtotals[item.ProductName] = item.Subtotal
	}
	assert.True(t, subtotals["Coffee"].Equal(decimal.RequireFromString("7.00")))
	assert.True(t, subtotals["Mineral Water"].Equal(decimal.RequireFromString("10.00")))

	// Stock decremented per line
	updated1, err := env.productRepo.FindByID(p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, updated1.StockQuantity)
	updated2, err := env.productRepo.FindByID(p2.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, updated2.StockQuantity)
}

func TestCheckout_RecomputesPricesFromCatalog(t *testing.T) {
	env := newCheckoutEnv(t)
	cashier := env.createCashier(t)
	product := env.createProduct(t, "Coffee", "3.50", 10)

	// Client sends a stale price snapshot
	req := &CheckoutRequest{
		Items:         []CheckoutLine{line(product.ID, 2, "1.00")},
		TotalAmount:   decimal.RequireFromString("2.00"),
		PaymentMethod: "cash",
	}

	sale, err := env.svc.Checkout(req, cashier.ID.String(), cashier.FullName)
	require.NoError(t, err)

	assert.True(t, sale.Items[0].UnitPrice.Equal(decimal.RequireFromString("3.50")))
	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("7.00")),
		"catalog price must win over client snapshot, got %s", sale.TotalAmount)
}

func TestCheckout_InsufficientStockRollsBackEverything(t *testing.T) {
	env := newCheckoutEnv(t)
	cashier := env.createCashier(t)
	p1 := env.createProduct(t, "Coffee", "3.50", 10)
	p2 := env.createProduct(t, "Mineral Water", "10.00", 1)

	req := &CheckoutRequest{
		Items: []CheckoutLine{
			line(p1.ID, 2, "3.50"),
			line(p2.ID, 3, "10.00"), // only 1 in stock
		},
		TotalAmount:   decimal.RequireFromString("37.00"),
		PaymentMethod: "cash",
	}

	sale, err := env.svc.Checkout(req, cashier.ID.String(), cashier.FullName)
	assert.Nil(t, sale)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	// No partial writes: no sale, no items, first line's decrement undone
	var saleCount, itemCount int64
	require.NoError(t, env.db.Model(&model.Sale{}).Count(&saleCount).Error)
	require.NoError(t, env.db.Model(&model.SaleItem{}).Count(&itemCount).Error)
	assert.Zero(t, saleCount)
	assert.Zero(t, itemCount)

	updated1, err := env.productRepo.FindByID(p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, updated1.StockQuantity)
	updated2, err := env.productRepo.FindByID(p2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated2.StockQuantity)
}

func TestCheckout_UnknownProduct(t *testing.T) {
	env := newCheckoutEnv(t)
	cashier := env.createCashier(t)

	req := &CheckoutRequest{
		Items:         []CheckoutLine{line(uuid.New(), 1, "3.50")},
		TotalAmount:   decimal.RequireFromString("3.50"),
		PaymentMethod: "cash",
	}

	sale, err := env.svc.Checkout(req, cashier.ID.String(), cashier.FullName)
	assert.Nil(t, sale)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCheckout_ConcurrentSalesNeverOversell(t *testing.T) {
	env := newCheckoutEnv(t)
	product := env.createProduct(t, "Limited Item", "5.00", 5)

	const attempts = 10
	results := make([]error, attempts)
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		cashier := env.createCashier(t)
		wg.Add(1)
		go func(slot int, cashierID string) {
			defer wg.Done()
			req := &CheckoutRequest{
				Items:         []CheckoutLine{line(product.ID, 1, "5.00")},
				TotalAmount:   decimal.RequireFromString("5.00"),
				PaymentMethod: "cash",
			}
			_, results[slot] = env.svc.Checkout(req, cashierID, "Cashier")
		}(i, cashier.ID.String())
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, repository.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("unexpected checkout error: %v", err)
		}
	}
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 5, rejected)

	updated, err := env.productRepo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.StockQuantity, "stock must never go negative")

	var saleCount int64
	require.NoError(t, env.db.Model(&model.Sale{}).Count(&saleCount).Error)
	assert.EqualValues(t, 5, saleCount)
}

func TestOpenShift_RejectsSecondOpenShift(t *testing.T) {
	env := newCheckoutEnv(t)
	cashier := env.createCashier(t)

	_, err := env.shiftSvc.OpenShift(&OpenShiftRequest{
		StartingCash: decimal.RequireFromString("50.00"),
	}, cashier.ID)
	require.NoError(t, err)

	_, err = env.shiftSvc.OpenShift(&OpenShiftRequest{
		StartingCash: decimal.RequireFromString("50.00"),
	}, cashier.ID)
	assert.ErrorIs(t, err, ErrShiftAlreadyOpen)
}

func TestOpenShift_ConcurrentOpensYieldOneShift(t *testing.T) {
	env := newCheckoutEnv(t)
	cashier := env.createCashier(t)

	const attempts = 8
	results := make([]error, attempts)
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, results[slot] = env.shiftSvc.OpenShift(&OpenShiftRequest{
				StartingCash: decimal.RequireFromString("50.00"),
			}, cashier.ID)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrShiftAlreadyOpen):
		default:
			t.Fatalf("unexpected open shift error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)

	var openCount int64
	require.NoError(t, env.db.Model(&model.Shift{}).
		Where("cashier_id = ? AND status = ?", cashier.ID, model.ShiftOpen).
		Count(&openCount).Error)
	assert.EqualValues(t, 1, openCount, "a cashier can hold at most one open shift")
}

func TestCheckout_OpposingLineOrdersBothCommit(t *testing.T) {
	env := newCheckoutEnv(t)
	p1 := env.createProduct(t, "Coffee", "3.50", 50)
	p2 := env.createProduct(t, "Mineral Water", "10.00", 50)

	forward := []CheckoutLine{line(p1.ID, 1, "3.50"), line(p2.ID, 1, "10.00")}
	reverse := []CheckoutLine{line(p2.ID, 1, "10.00"), line(p1.ID, 1, "3.50")}

	const rounds = 10
	results := make([]error, rounds*2)
	var wg sync.WaitGroup

	for i := 0; i < rounds; i++ {
		a := env.createCashier(t)
		b := env.createCashier(t)
		wg.Add(2)
		go func(slot int, cashierID string) {
			defer wg.Done()
			req := &CheckoutRequest{Items: forward, PaymentMethod: "cash"}
			_, results[slot] = env.svc.Checkout(req, cashierID, "Cashier")
		}(i*2, a.ID.String())
		go func(slot int, cashierID string) {
			defer wg.Done()
			req := &CheckoutRequest{Items: reverse, PaymentMethod: "cash"}
			_, results[slot] = env.svc.Checkout(req, cashierID, "Cashier")
		}(i*2+1, b.ID.String())
	}
	wg.Wait()

	for _, err := range results {
		require.NoError(t, err, "opposing line orders must not deadlock or abort")
	}

	updated1, err := env.productRepo.FindByID(p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 50-rounds*2, updated1.StockQuantity)
	updated2, err := env.productRepo.FindByID(p2.ID)
	require.NoError(t, err)
	assert.Equal(t, 50-rounds*2, updated2.StockQuantity)
}

func TestCheckout_StampsOpenShiftAndRollsUpOnClose(t *testing.T) {
	env := newCheckoutEnv(t)
	cashier := env.createCashier(t)
	product := env.createProduct(t, "Coffee", "3.50", 10)

	shift, err := env.shiftSvc.OpenShift(&OpenShiftRequest{
		StartingCash: decimal.RequireFromString("100.00"),
	}, cashier.ID)
	require.NoError(t, err)

	req := &CheckoutRequest{
		Items:         []CheckoutLine{line(product.ID, 2, "3.50")},
		TotalAmount:   decimal.RequireFromString("7.00"),
		PaymentMethod: "cash",
	}
	sale, err := env.svc.Checkout(req, cashier.ID.String(), cashier.FullName)
	require.NoError(t, err)
	require.NotNil(t, sale.ShiftID)
	assert.Equal(t, shift.ID, *sale.ShiftID)

	closed, err := env.shiftSvc.CloseShift(&CloseShiftRequest{
		EndingCash: decimal.RequireFromString("107.00"),
	}, cashier.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.TotalSales)
	assert.True(t, closed.TotalSales.Equal(decimal.RequireFromString("7.00")),
		"expected shift total 7.00, got %s", closed.TotalSales)
	assert.Equal(t, model.ShiftClosed, closed.Status)
}
