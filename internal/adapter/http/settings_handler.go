package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aquavi/delivery-api/internal/logging"
	"github.com/aquavi/delivery-api/internal/usecase"
)

type SettingsHandler struct {
	settings usecase.SettingsStore
}

func NewSettingsHandler(settings usecase.SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	open, err := h.settings.ReceiveOrders(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receiveOrders": open})
}

type settingsReq struct {
	ReceiveOrders *bool `json:"receiveOrders" binding:"required"`
}

// Update flips the kill switch gating new order creation.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req settingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.settings.SetReceiveOrders(ctx, *req.ReceiveOrders); err != nil {
		writeError(c, err)
		return
	}
	logging.From(c).Info("receive_orders updated", "open", *req.ReceiveOrders)
	c.JSON(http.StatusOK, gin.H{"receiveOrders": *req.ReceiveOrders})
}
