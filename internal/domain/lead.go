package domain

import "time"

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadClosed    LeadStatus = "closed"
)

// Lead is a contact-form submission from the marketing pages.
type Lead struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name" validate:"required"`
	Email     string     `json:"email" validate:"required,email"`
	Phone     string     `json:"phone,omitempty"`
	Message   string     `json:"message" gorm:"type:text"`
	Source    string     `json:"source,omitempty"`
	Status    LeadStatus `json:"status"`
	IPAddress string     `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
