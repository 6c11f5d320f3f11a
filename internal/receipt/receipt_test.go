package receipt

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSale(t *testing.T) *model.Sale {
	t.Helper()

	p1 := uuid.New()
	p2 := uuid.New()
	sale := &model.Sale{
		TotalAmount:   decimal.RequireFromString("17.00"),
		PaymentMethod: "cash",
		Status:        model.SaleCompleted,
		Items: []model.SaleItem{
			{
				ProductID:   &p1,
				ProductName: "Coffee",
				Quantity:    2,
				UnitPrice:   decimal.RequireFromString("3.50"),
				Subtotal:    decimal.RequireFromString("7.00"),
			},
			{
				ProductID:   &p2,
				ProductName: "Mineral Water",
				Quantity:    1,
				UnitPrice:   decimal.RequireFromString("10.00"),
				Subtotal:    decimal.RequireFromString("10.00"),
			},
		},
	}
	sale.ID = uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")
	sale.CreatedAt = time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	return sale
}

func TestRender_HeaderAndFooter(t *testing.T) {
	out := Render(sampleSale(t), DefaultStore)

	assert.Contains(t, out, "STORE NAME")
	assert.Contains(t, out, "Tel: (123) 456-7890")
	assert.Contains(t, out, "Thank you for shopping with us!")
}

func TestRender_Metadata(t *testing.T) {
	out := Render(sampleSale(t), DefaultStore)

	assert.Contains(t, out, "Receipt: #a1b2c3d4")
	assert.Contains(t, out, "Date: 14/03/2026 09:26")
	assert.Contains(t, out, "Payment: cash")
}

func TestRender_MoneyIsTwoDecimal(t *testing.T) {
	out := Render(sampleSale(t), DefaultStore)

	assert.Contains(t, out, "$3.50")
	assert.Contains(t, out, "$7.00")
	assert.Contains(t, out, "$10.00")
	assert.Contains(t, out, "Total: $17.00")
}

func TestRender_FitsPrinterWidth(t *testing.T) {
	out := Render(sampleSale(t), DefaultStore)

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 40, "line exceeds printer width: %q", line)
	}
}

func TestRender_TruncatesLongNames(t *testing.T) {
	sale := sampleSale(t)
	sale.Items[0].ProductName = "An Exceptionally Long Product Name"

	out := Render(sale, DefaultStore)

	assert.Contains(t, out, "An Exceptionally")
	assert.NotContains(t, out, "An Exceptionally Long")
}

func TestRender_TruncatesOnRuneBoundaries(t *testing.T) {
	sale := sampleSale(t)
	sale.Items[0].ProductName = "Càffè Latte Suprême Glacé"

	out := Render(sale, DefaultStore)

	assert.True(t, utf8.ValidString(out), "truncation must not split a rune")
	assert.Contains(t, out, string([]rune(sale.Items[0].ProductName)[:16]))
}

func TestRender_OversizedTotalDoesNotPanic(t *testing.T) {
	sale := sampleSale(t)
	sale.TotalAmount = decimal.RequireFromString("99999999999999999999999999999999999999.00")

	out := Render(sale, DefaultStore)

	assert.Contains(t, out, "Total: $"+sale.TotalAmount.StringFixed(2))
}

func TestRender_OneRowPerItem(t *testing.T) {
	out := Render(sampleSale(t), DefaultStore)

	var rows int
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Coffee") || strings.HasPrefix(line, "Mineral Water") {
			rows++
		}
	}
	require.Equal(t, 2, rows)
}
