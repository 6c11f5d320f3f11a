package handler

import (
	"go-pos-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ShiftHandler struct {
	service service.ShiftService
}

func NewShiftHandler(s service.ShiftService) *ShiftHandler {
	return &ShiftHandler{service: s}
}

func cashierUUID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(getUserID(c))
}

// OpenShift starts a cash-drawer session for the authenticated cashier
// POST /api/v1/shifts/open
func (h *ShiftHandler) OpenShift(c *fiber.Ctx) error {
	var req service.OpenShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	cashierID, err := cashierUUID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	shift, err := h.service.OpenShift(&req, cashierID)
	if err != nil {
		if err == service.ErrShiftAlreadyOpen {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Shift opened", "data": shift.ToResponse()})
}

// CloseShift ends the cashier's open shift and rolls up its sales total
// POST /api/v1/shifts/close
func (h *ShiftHandler) CloseShift(c *fiber.Ctx) error {
	var req service.CloseShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	cashierID, err := cashierUUID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	shift, err := h.service.CloseShift(&req, cashierID)
	if err != nil {
		if err == service.ErrNoOpenShift {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Shift closed", "data": shift.ToResponse()})
}

// GetCurrentShift returns the cashier's open shift, if any
// GET /api/v1/shifts/current
func (h *ShiftHandler) GetCurrentShift(c *fiber.Ctx) error {
	cashierID, err := cashierUUID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	shift, err := h.service.GetCurrentShift(cashierID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(shift.ToResponse())
}

// GetShifts returns all shifts, newest first
// GET /api/v1/shifts
func (h *ShiftHandler) GetShifts(c *fiber.Ctx) error {
	// Optional filter by cashier
	if cashierParam := c.Query("cashier_id"); cashierParam != "" {
		cashierID, err := uuid.Parse(cashierParam)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid cashier ID"})
		}
		shifts, err := h.service.GetShiftsByCashier(cashierID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch shifts"})
		}
		return c.JSON(shifts)
	}

	shifts, err := h.service.GetAllShifts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch shifts"})
	}
	return c.JSON(shifts)
}
