package handler

import (
	"fmt"
	"strconv"
	"time"

	"go-pos-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetSalesSummary returns per-day sales counts and revenue
// Query params: days (default 7)
func (h *ReportHandler) GetSalesSummary(c *fiber.Ctx) error {
	daysStr := c.Query("days", "7")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.GetSalesSummary(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch sales summary"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetTopProducts ranks products by units sold
// Query params: days (default 7), limit (default 10)
func (h *ReportHandler) GetTopProducts(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	data, err := h.service.GetTopProducts(days, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch top products"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetLowStock lists products at or below their reorder threshold
func (h *ReportHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.service.GetLowStockProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch low stock products"})
	}
	return c.JSON(products)
}

// parseDateRangeFromQuery resolves the export window.
// Priority:
// 1) explicit start/end (YYYY-MM-DD, end inclusive)
// 2) month+year
// 3) year
func parseDateRangeFromQuery(c *fiber.Ctx) (time.Time, time.Time, error) {
	startStr := c.Query("start", "")
	endStr := c.Query("end", "")
	monthStr := c.Query("month", "")
	yearStr := c.Query("year", "")

	if startStr != "" || endStr != "" {
		if startStr == "" || endStr == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("start and end must be provided together")
		}
		startDate, errStart := time.ParseInLocation("2006-01-02", startStr, time.Local)
		endDate, errEnd := time.ParseInLocation("2006-01-02", endStr, time.Local)
		if errStart != nil || errEnd != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("dates must be formatted YYYY-MM-DD")
		}
		return startDate, endDate.AddDate(0, 0, 1), nil
	}

	if monthStr != "" {
		if yearStr == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("year is required when month is used")
		}
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1900 {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid year")
		}
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid month")
		}
		startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		return startDate, startDate.AddDate(0, 1, 0), nil
	}

	if yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1900 {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid year")
		}
		startDate := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
		return startDate, startDate.AddDate(1, 0, 0), nil
	}

	// Default to the current month
	now := time.Now()
	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	return startDate, startDate.AddDate(0, 1, 0), nil
}

// ExportSales streams the sales report workbook
// GET /api/v1/reports/sales/export
func (h *ReportHandler) ExportSales(c *fiber.Ctx) error {
	startDate, endDate, err := parseDateRangeFromQuery(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	f, err := h.service.ExportSales(startDate, endDate)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build sales export"})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to write sales export"})
	}

	filename := fmt.Sprintf("sales_%s.xlsx", startDate.Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}
