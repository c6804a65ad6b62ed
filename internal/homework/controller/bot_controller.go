package controller

import (
	"context"
	"net/http"
	"strconv"

	"hwbot/internal/homework/model"
	"hwbot/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// BotStatus is the read side of the poll loop.
type BotStatus interface {
	State() model.PollState
	Recent(ctx context.Context, limit int) ([]model.Delivery, error)
}

// BotController serves the bot's status endpoints.
type BotController struct {
	status BotStatus
}

// NewBotController creates a new BotController.
func NewBotController(status BotStatus) *BotController {
	return &BotController{status: status}
}

// RegisterRoutes mounts the handlers on r.
func (h *BotController) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.Health)
	api := r.Group("/api/v1/bot")
	api.GET("/state", h.State)
	api.GET("/deliveries", h.Deliveries)
}

// Health reports liveness.
func (h *BotController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// State returns the current poll state.
func (h *BotController) State(c *gin.Context) {
	response.Success(c, h.status.State())
}

// Deliveries lists recent messages from the journal.
func (h *BotController) Deliveries(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "Invalid limit")
			return
		}
		limit = n
	}

	deliveries, err := h.status.Recent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, DeliveriesResponse{Items: deliveries})
}

// DeliveriesResponse defines the deliveries payload.
type DeliveriesResponse struct {
	Items []model.Delivery `json:"items"`
}
