package availability

import "time"

type CreateAvailabilityRequest struct {
	Title           string    `json:"title"`
	StaffName       string    `json:"staffName"`
	StartTime       time.Time `json:"startTime" binding:"required"`
	EndTime         time.Time `json:"endTime" binding:"required"`
	SlotDurationMin int       `json:"slotDurationMin" binding:"required"`
}

type UpdateAvailabilityRequest struct {
	Title           string    `json:"title"`
	StaffName       string    `json:"staffName"`
	StartTime       time.Time `json:"startTime" binding:"required"`
	EndTime         time.Time `json:"endTime" binding:"required"`
	SlotDurationMin int       `json:"slotDurationMin" binding:"required"`
	IsActive        *bool     `json:"isActive"`
}
