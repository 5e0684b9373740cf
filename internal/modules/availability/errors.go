package availability

import "errors"

var (
	ErrInvalidWindow     = errors.New("invalid availability window")
	ErrNotFound          = errors.New("availability not found")
	ErrHasActiveBookings = errors.New("availability has active bookings")
)
