package booking

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"consultly/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.POST("/bookings/:id/sync", h.RetrySync)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing or invalid booking fields")
		case ErrSlotUnavailable:
			response.Error(c, http.StatusConflict, "SLOT_UNAVAILABLE", "The selected slot is no longer available")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
		}
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) RetrySync(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var req RetrySyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.RetrySync(c.Request.Context(), id, req.System)
	if err != nil {
		switch err {
		case ErrUnknownSystem:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown sync system")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retry sync")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "sync attempted",
		"result":  result,
	})
}
