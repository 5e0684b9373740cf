package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrSlotUnavailable         = errors.New("slot unavailable")
	ErrNotFound                = errors.New("booking not found")
	ErrUnknownSystem           = errors.New("unknown sync system")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
