package lead

import (
	"net/http"

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
	rg.POST("/leads", h.Submit)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	l, err := h.service.Submit(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":     l.ID,
		"status": l.Status,
	})
}
