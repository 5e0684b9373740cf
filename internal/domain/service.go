package domain

import "time"

// Service is a consultation offering shown on the marketing pages.
type Service struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	DurationMin int       `json:"duration_min" validate:"required,gt=0"`
	Price       float64   `json:"price" validate:"gte=0"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
