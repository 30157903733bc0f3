package handlers

import (
	"net/http"

	"socialbook/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.Notifications.List(c.Request.Context(), h.viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetNotification(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	n, err := h.Notifications.Get(c.Request.Context(), h.viewer(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Notifications.MarkRead(c.Request.Context(), h.viewer(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "marked as read"})
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	if _, err := h.Notifications.MarkAllRead(c.Request.Context(), h.viewer(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "all marked as read"})
}
