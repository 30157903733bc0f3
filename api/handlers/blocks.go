package handlers

import (
	"net/http"

	"socialbook/api/middleware"
	"socialbook/models"
	"socialbook/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListBlocks(c *gin.Context) {
	blocks, err := h.Blocks.List(c.Request.Context(), h.viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blocks)
}

func (h *Handler) CreateBlock(c *gin.Context) {
	var req models.ToggleBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrBlockedRequired)
		return
	}
	block, err := h.Blocks.Create(c.Request.Context(), h.viewer(c), req.Blocked)
	middleware.RecordAction("block", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (h *Handler) ToggleBlock(c *gin.Context) {
	var req models.ToggleBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrBlockedRequired)
		return
	}
	block, err := h.Blocks.Toggle(c.Request.Context(), h.viewer(c), req.Blocked)
	middleware.RecordAction("block", err)
	if err != nil {
		respondError(c, err)
		return
	}
	if block == nil {
		c.JSON(http.StatusOK, models.StatusResponse{Status: models.BlockStatusUnblocked})
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (h *Handler) DeleteBlock(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Blocks.Delete(c.Request.Context(), h.viewer(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
