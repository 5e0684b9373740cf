package domain

import "time"

type TimeSlot struct {
	ID             int64     `json:"id"`
	AvailabilityID int64     `json:"availability_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	IsBooked       bool      `json:"is_booked"`
	CreatedAt      time.Time `json:"created_at"`
}
