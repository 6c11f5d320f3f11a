// Package receipt renders a completed sale as a fixed-width text document
// suitable for a 40-column thermal printer.
package receipt

import (
	"fmt"
	"strings"

	"go-pos-backend/internal/model"
)

const width = 40

// Store is the header/footer block printed on every receipt
type Store struct {
	Name    string
	Address []string
	Phone   string
	Footer  []string
}

// DefaultStore matches the storefront the register ships with
var DefaultStore = Store{
	Name:    "STORE NAME",
	Address: []string{"123 Store Street", "City, State 12345"},
	Phone:   "Tel: (123) 456-7890",
	Footer:  []string{"Thank you for shopping with us!", "Please come again"},
}

func center(s string) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

// Render formats a sale: store header, receipt metadata, one row per line
// item, the total, and the footer. Money is always 2-decimal, timestamps
// use dd/MM/yyyy HH:mm.
func Render(sale *model.Sale, store Store) string {
	var b strings.Builder
	divider := strings.Repeat("-", width)

	b.WriteString(center(store.Name) + "\n")
	for _, line := range store.Address {
		b.WriteString(center(line) + "\n")
	}
	if store.Phone != "" {
		b.WriteString(center(store.Phone) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Receipt: #%s\n", sale.ID.String()[:8]))
	b.WriteString(fmt.Sprintf("Date: %s\n", sale.CreatedAt.Format("02/01/2006 15:04")))
	b.WriteString(fmt.Sprintf("Payment: %s\n", sale.PaymentMethod))

	b.WriteString(divider + "\n")
	b.WriteString(fmt.Sprintf("%-16s %3s %8s %9s\n", "Item", "Qty", "Price", "Total"))
	for _, item := range sale.Items {
		name := item.ProductName
		if runes := []rune(name); len(runes) > 16 {
			name = string(runes[:16])
		}
		b.WriteString(fmt.Sprintf("%-16s %3d %8s %9s\n",
			name,
			item.Quantity,
			"$"+item.UnitPrice.StringFixed(2),
			"$"+item.Subtotal.StringFixed(2),
		))
	}
	b.WriteString(divider + "\n")

	total := "Total: $" + sale.TotalAmount.StringFixed(2)
	pad := width - len(total)
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + total + "\n")
	b.WriteString("\n")

	for _, line := range store.Footer {
		b.WriteString(center(line) + "\n")
	}

	return b.String()
}
