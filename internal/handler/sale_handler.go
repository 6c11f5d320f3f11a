package handler

import (
	"errors"
	"time"

	"go-pos-backend/internal/receipt"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"
	"go-pos-backend/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.CheckoutService
	metrics *metrics.CheckoutMetrics
}

func NewSaleHandler(s service.CheckoutService, m *metrics.CheckoutMetrics) *SaleHandler {
	return &SaleHandler{service: s, metrics: m}
}

// CreateSale handles checkout
// POST /api/v1/sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	start := time.Now()
	sale, err := h.service.Checkout(&req, getUserID(c), getUserName(c))
	h.metrics.DurationMS.Observe(float64(time.Since(start).Milliseconds()))

	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			h.metrics.Checkouts.WithLabelValues("rejected").Inc()
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrProductNotFound):
			h.metrics.Checkouts.WithLabelValues("rejected").Inc()
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrInvalidCashier),
			errors.Is(err, service.ErrValidation):
			h.metrics.Checkouts.WithLabelValues("rejected").Inc()
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		default:
			// Persistence failures; never echo driver errors to the client
			h.metrics.Checkouts.WithLabelValues("failed").Inc()
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
	}

	h.metrics.Checkouts.WithLabelValues("completed").Inc()
	for _, item := range sale.Items {
		h.metrics.ItemsSold.Add(float64(item.Quantity))
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "sale": sale})
}

// GetSales returns all sales, newest first
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.GetAllSales()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.GetSaleByID(saleID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Sale not found"})
	}
	return c.JSON(sale)
}

// GetReceipt renders a completed sale as a printable text receipt
// GET /api/v1/sales/:id/receipt
func (h *SaleHandler) GetReceipt(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.GetSaleByID(saleID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Sale not found"})
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendString(receipt.Render(sale, receipt.DefaultStore))
}
