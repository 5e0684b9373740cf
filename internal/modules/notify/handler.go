package notify

import (
	"github.com/gin-gonic/gin"
)

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", h.Connect)
}

// Connect runs behind the admin auth middleware, which puts user_id on the
// context.
func (h *Handler) Connect(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request, c.GetInt64("user_id"))
}
