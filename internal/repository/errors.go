package repository

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrSlotAlreadyBooked = errors.New("slot already booked")
	ErrSlotConflict      = errors.New("active booking already exists for slot")
)
