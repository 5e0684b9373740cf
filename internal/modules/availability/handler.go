package availability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"consultly/internal/pkg/response"
	"consultly/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes the read-only listing endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/availability", h.ListAvailability)
	rg.GET("/slots", h.ListSlots)
}

// RegisterAdminRoutes exposes the mutating endpoints.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/availability", h.Create)
	rg.PUT("/availability/:id", h.Update)
	rg.DELETE("/availability/:id", h.Delete)
}

func (h *Handler) ListAvailability(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), from, to, true)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list availability")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ListSlots(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	f := repository.SlotFilter{
		From:     from,
		To:       to,
		OnlyFree: c.Query("only_free") == "true",
	}
	if raw := c.Query("availability_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid availability_id")
			return
		}
		f.AvailabilityID = id
	}

	slots, err := h.service.ListSlots(c.Request.Context(), f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list slots")
		return
	}
	response.Success(c, http.StatusOK, slots)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		if err == ErrInvalidWindow {
			response.Error(c, http.StatusBadRequest, "INVALID_WINDOW", "End must be after start and duration positive")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create availability")
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Availability not found")
		case ErrHasActiveBookings:
			response.Error(c, http.StatusBadRequest, "HAS_ACTIVE_BOOKINGS", "Availability has booked slots")
		case ErrInvalidWindow:
			response.Error(c, http.StatusBadRequest, "INVALID_WINDOW", "End must be after start and duration positive")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update availability")
		}
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Availability not found")
		case ErrHasActiveBookings:
			response.Error(c, http.StatusBadRequest, "HAS_ACTIVE_BOOKINGS", "Availability has booked slots")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete availability")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid from timestamp")
			return from, to, false
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid to timestamp")
			return from, to, false
		}
		to = t
	}
	return from, to, true
}

func actorID(c *gin.Context) *int64 {
	if v := c.GetInt64("user_id"); v > 0 {
		return &v
	}
	return nil
}
