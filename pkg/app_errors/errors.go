package apperrors

import "errors"

var (
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrInvalidDataset      = errors.New("invalid ticket dataset")
	ErrScanSuppressed      = errors.New("scan suppressed by debounce window")
	ErrInvalidInput        = errors.New("invalid input")
	ErrCheckInNotFound     = errors.New("check-in not found")
	ErrInternalServerError = errors.New("internal server error")
)
