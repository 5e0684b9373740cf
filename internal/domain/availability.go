package domain

import "time"

// Availability is a staff member's declared open window. Slots are generated
// from it with a fixed duration; the tail remainder shorter than one slot is
// dropped.
type Availability struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	StaffName       string    `json:"staff_name,omitempty"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	EndTime         time.Time `json:"end_time" validate:"required"`
	SlotDurationMin int       `json:"slot_duration_min" validate:"required,gt=0"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Slots []TimeSlot `json:"slots,omitempty" gorm:"foreignKey:AvailabilityID"`
}
