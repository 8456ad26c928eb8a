package models

import "errors"

// Domain errors. Callers wrap them with context and the HTTP layer maps
// them to status codes with errors.Is.
var (
	ErrValidation           = errors.New("validation error")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrUnavailable          = errors.New("item unavailable")
	ErrInsufficientBalance  = errors.New("insufficient wallet balance")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
)
