package repository

import (
	"errors"

	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrOpenShiftExists is returned when the uniq_shifts_open_cashier index
// rejects a second open shift for the same cashier.
var ErrOpenShiftExists = errors.New("cashier already has an open shift")

type ShiftRepository interface {
	Create(shift *model.Shift) error
	Update(shift *model.Shift) error
	FindByID(id uuid.UUID) (*model.Shift, error)
	FindOpenByCashier(cashierID uuid.UUID) (*model.Shift, error)
	FindAll() ([]model.Shift, error)
	FindByCashier(cashierID uuid.UUID) ([]model.Shift, error)
}

type shiftRepo struct {
	db *gorm.DB
}

func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db}
}

func (r *shiftRepo) Create(shift *model.Shift) error {
	err := r.db.Create(shift).Error

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrOpenShiftExists
	}
	return err
}

func (r *shiftRepo) Update(shift *model.Shift) error {
	return r.db.Save(shift).Error
}

func (r *shiftRepo) FindByID(id uuid.UUID) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.Preload("Cashier").First(&shift, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) FindOpenByCashier(cashierID uuid.UUID) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.
		Where("cashier_id = ? AND status = ?", cashierID, model.ShiftOpen).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) FindAll() ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.Preload("Cashier").Order("start_time DESC").Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) FindByCashier(cashierID uuid.UUID) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.
		Where("cashier_id = ?", cashierID).
		Order("start_time DESC").
		Find(&shifts).Error
	return shifts, err
}
