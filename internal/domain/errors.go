package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrServiceNotFound     = errors.New("service record not found")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrDriverNotFound      = errors.New("driver not found")
	ErrPlateRequired       = errors.New("plate is required")
	ErrPlateTaken          = errors.New("plate already registered")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrAlreadySplit        = errors.New("record is already an installment")
	ErrDashboardLoadFailed = errors.New("dashboard data could not be loaded")
)

// Validation constants
const (
	MaxPlateLength = 10
	MaxNameLength  = 255
)
