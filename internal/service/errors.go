package service

import "errors"

var (
	ErrValidation       = errors.New("validation failed")
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidCashier   = errors.New("invalid cashier identity")
	ErrShiftAlreadyOpen = errors.New("cashier already has an open shift")
	ErrNoOpenShift      = errors.New("cashier has no open shift")
)
