package admin

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
