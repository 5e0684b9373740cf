package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"consultly/internal/modules/booking"
	"consultly/internal/pkg/response"
	"consultly/internal/repository"
)

type Handler struct {
	service  *Service
	bookings BookingManager
}

func NewHandler(service *Service, bookings BookingManager) *Handler {
	return &Handler{service: service, bookings: bookings}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/export", h.ExportBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.POST("/bookings/:id/confirm", h.ConfirmBooking)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
	rg.POST("/bookings/:id/complete", h.CompleteBooking)
	rg.GET("/leads", h.ListLeads)
	rg.PATCH("/leads/:id/status", h.UpdateLeadStatus)
	rg.GET("/audit", h.ListAudit)
}

func (h *Handler) ListBookings(c *gin.Context) {
	f := repository.BookingFilter{
		Status: c.Query("status"),
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.From = t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.To = t
		}
	}

	items, err := h.service.ListBookings(c.Request.Context(), f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ExportBookings(c *gin.Context) {
	file, err := h.service.ExportBookings(c.Request.Context(), repository.BookingFilter{Status: c.Query("status")})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to export bookings")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	b, err := h.bookings.GetBooking(c.Request.Context(), id)
	if err != nil {
		if err == booking.ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load booking")
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	b, err := h.bookings.Confirm(c.Request.Context(), id, actorID(c))
	if err != nil {
		writeLifecycleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required")
		return
	}

	b, err := h.bookings.Cancel(c.Request.Context(), id, req.Reason, actorID(c))
	if err != nil {
		writeLifecycleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	b, err := h.bookings.Complete(c.Request.Context(), id, actorID(c))
	if err != nil {
		writeLifecycleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListLeads(c *gin.Context) {
	items, err := h.service.ListLeads(c.Request.Context(), c.Query("status"), intQuery(c, "limit", 50), intQuery(c, "offset", 0))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list leads")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) UpdateLeadStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.UpdateLeadStatus(c.Request.Context(), id, req.Status); err != nil {
		if err == repository.ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Lead not found")
			return
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": id})
}

func (h *Handler) ListAudit(c *gin.Context) {
	items, err := h.service.ListAudit(c.Request.Context(), intQuery(c, "limit", 100))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list audit log")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func writeLifecycleError(c *gin.Context, err error) {
	switch err {
	case booking.ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case booking.ErrInvalidStatusTransition:
		response.Error(c, http.StatusBadRequest, "INVALID_TRANSITION", "Booking status does not allow this action")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if raw := c.Query(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}

func actorID(c *gin.Context) *int64 {
	if v := c.GetInt64("user_id"); v > 0 {
		return &v
	}
	return nil
}
