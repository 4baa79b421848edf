package payment

import "errors"

var (
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrInvalidStatus       = errors.New("invalid payment status")
)
