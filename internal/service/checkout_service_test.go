package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validation failures are rejected before the transaction opens, so these
// tests exercise Checkout without a database.
func newValidationOnlyService(t *testing.T) CheckoutService {
	t.Helper()
	return NewCheckoutService(nil, nil, nil, nil, nil)
}

func validCheckoutRequest() *CheckoutRequest {
	return &CheckoutRequest{
		Items: []CheckoutLine{
			{
				ProductID: uuid.New(),
				Quantity:  2,
				UnitPrice: decimal.RequireFromString("3.50"),
				Subtotal:  decimal.RequireFromString("7.00"),
			},
		},
		TotalAmount:   decimal.RequireFromString("7.00"),
		PaymentMethod: "cash",
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc := newValidationOnlyService(t)

	sale, err := svc.Checkout(&CheckoutRequest{PaymentMethod: "cash"}, uuid.NewString(), "Cashier")

	assert.Nil(t, sale)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_RejectsNonPositiveQuantity(t *testing.T) {
	svc := newValidationOnlyService(t)

	req := validCheckoutRequest()
	req.Items[0].Quantity = 0

	sale, err := svc.Checkout(req, uuid.NewString(), "Cashier")

	assert.Nil(t, sale)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "Quantity")
}

func TestCheckout_RejectsNegativeQuantity(t *testing.T) {
	svc := newValidationOnlyService(t)

	req := validCheckoutRequest()
	req.Items[0].Quantity = -3

	sale, err := svc.Checkout(req, uuid.NewString(), "Cashier")

	assert.Nil(t, sale)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "Quantity")
}

func TestCheckout_RejectsMissingPaymentMethod(t *testing.T) {
	svc := newValidationOnlyService(t)

	req := validCheckoutRequest()
	req.PaymentMethod = ""

	sale, err := svc.Checkout(req, uuid.NewString(), "Cashier")

	assert.Nil(t, sale)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "PaymentMethod")
}

func TestCheckout_RejectsMissingProductID(t *testing.T) {
	svc := newValidationOnlyService(t)

	req := validCheckoutRequest()
	req.Items[0].ProductID = uuid.Nil

	sale, err := svc.Checkout(req, uuid.NewString(), "Cashier")

	assert.Nil(t, sale)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "ProductID")
}

func TestCheckout_RejectsInvalidCashierID(t *testing.T) {
	svc := newValidationOnlyService(t)

	sale, err := svc.Checkout(validCheckoutRequest(), "not-a-uuid", "Cashier")

	assert.Nil(t, sale)
	assert.ErrorIs(t, err, ErrInvalidCashier)
}
