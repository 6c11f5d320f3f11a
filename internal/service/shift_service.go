package service

import (
	"errors"
	"fmt"
	"time"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShiftService interface {
	OpenShift(req *OpenShiftRequest, cashierID uuid.UUID) (*model.Shift, error)
	CloseShift(req *CloseShiftRequest, cashierID uuid.UUID) (*model.Shift, error)
	GetCurrentShift(cashierID uuid.UUID) (*model.Shift, error)
	GetAllShifts() ([]model.ShiftResponse, error)
	GetShiftsByCashier(cashierID uuid.UUID) ([]model.ShiftResponse, error)
}

type OpenShiftRequest struct {
	StartingCash decimal.Decimal `json:"starting_cash" validate:"gte=0"`
}

type CloseShiftRequest struct {
	EndingCash decimal.Decimal `json:"ending_cash" validate:"gte=0"`
}

type shiftService struct {
	shiftRepo repository.ShiftRepository
	saleRepo  repository.SaleRepository
}

func NewShiftService(shiftRepo repository.ShiftRepository, saleRepo repository.SaleRepository) ShiftService {
	return &shiftService{
		shiftRepo: shiftRepo,
		saleRepo:  saleRepo,
	}
}

// OpenShift starts a cash-drawer session. A cashier can hold at most one
// open shift at a time.
func (s *shiftService) OpenShift(req *OpenShiftRequest, cashierID uuid.UUID) (*model.Shift, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// Fast path; the uniq_shifts_open_cashier index is the real guard
	if existing, err := s.shiftRepo.FindOpenByCashier(cashierID); err == nil && existing != nil {
		return nil, ErrShiftAlreadyOpen
	}

	shift := &model.Shift{
		CashierID:    cashierID,
		StartTime:    time.Now(),
		StartingCash: req.StartingCash,
		Status:       model.ShiftOpen,
	}
	shift.CreatedBy = cashierID.String()
	shift.UpdatedBy = cashierID.String()

	if err := s.shiftRepo.Create(shift); err != nil {
		if errors.Is(err, repository.ErrOpenShiftExists) {
			return nil, ErrShiftAlreadyOpen
		}
		return nil, err
	}

	return shift, nil
}

// CloseShift ends the cashier's open shift: it records the counted ending
// cash and rolls up TotalSales from the sales made during the shift window.
func (s *shiftService) CloseShift(req *CloseShiftRequest, cashierID uuid.UUID) (*model.Shift, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	shift, err := s.shiftRepo.FindOpenByCashier(cashierID)
	if err != nil {
		return nil, ErrNoOpenShift
	}

	now := time.Now()
	totalSales, err := s.saleRepo.TotalForCashierBetween(cashierID, shift.StartTime, now)
	if err != nil {
		return nil, err
	}

	shift.EndTime = &now
	shift.EndingCash = &req.EndingCash
	shift.TotalSales = &totalSales
	shift.Status = model.ShiftClosed
	shift.UpdatedBy = cashierID.String()

	if err := s.shiftRepo.Update(shift); err != nil {
		return nil, err
	}

	return shift, nil
}

func (s *shiftService) GetCurrentShift(cashierID uuid.UUID) (*model.Shift, error) {
	shift, err := s.shiftRepo.FindOpenByCashier(cashierID)
	if err != nil {
		return nil, ErrNoOpenShift
	}
	return shift, nil
}

func (s *shiftService) GetAllShifts() ([]model.ShiftResponse, error) {
	shifts, err := s.shiftRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.ShiftResponse, len(shifts))
	for i, shift := range shifts {
		responses[i] = shift.ToResponse()
	}
	return responses, nil
}

func (s *shiftService) GetShiftsByCashier(cashierID uuid.UUID) ([]model.ShiftResponse, error) {
	shifts, err := s.shiftRepo.FindByCashier(cashierID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.ShiftResponse, len(shifts))
	for i, shift := range shifts {
		responses[i] = shift.ToResponse()
	}
	return responses, nil
}
