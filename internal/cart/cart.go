// Package cart holds the register's transient in-memory cart. It is never
// persisted: it exists only while a checkout request is being built, and a
// failed checkout leaves it intact so the cashier can retry.
package cart

import (
	"sync"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product entry in the cart. UnitPrice is the catalog price at
// the moment the product was added; the server recomputes it at checkout.
type Line struct {
	ProductID uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Cart is an ordered product -> quantity mapping, safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add increments the quantity if the product is already in the cart,
// otherwise appends a new line at quantity 1.
func (c *Cart) Add(p *model.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
	})
}

// Remove drops the product's line entirely
func (c *Cart) Remove(productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces a line's quantity. A quantity below 1 is a no-op.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) {
	if quantity < 1 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Total sums price x quantity across all lines
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Clear empties the cart. Called only after a successful checkout.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Len returns the number of lines
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Lines returns a copy of the cart contents in insertion order
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// CheckoutRequest builds the request the checkout endpoint consumes,
// with unit prices and subtotals snapshot from the cart.
func (c *Cart) CheckoutRequest(paymentMethod string) *service.CheckoutRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]service.CheckoutLine, len(c.lines))
	total := decimal.Zero
	for i, line := range c.lines {
		subtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items[i] = service.CheckoutLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  subtotal,
		}
		total = total.Add(subtotal)
	}

	return &service.CheckoutRequest{
		Items:         items,
		TotalAmount:   total,
		PaymentMethod: paymentMethod,
	}
}
