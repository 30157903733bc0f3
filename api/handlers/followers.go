package handlers

import (
	"net/http"

	"socialbook/api/middleware"
	"socialbook/models"
	"socialbook/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListFollows(c *gin.Context) {
	follows, err := h.Follows.List(c.Request.Context(), h.viewer(c), c.Query("user"), c.Query("follower"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, follows)
}

// ToggleFollow: 201 с новой подпиской или {"status": "unfollowed"}
func (h *Handler) ToggleFollow(c *gin.Context) {
	var req models.ToggleFollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrFollowUserRequired)
		return
	}
	follow, err := h.Follows.Toggle(c.Request.Context(), h.viewer(c), req.User)
	middleware.RecordAction("follow", err)
	if err != nil {
		respondError(c, err)
		return
	}
	if follow == nil {
		c.JSON(http.StatusOK, models.StatusResponse{Status: models.FollowStatusUnfollowed})
		return
	}
	c.JSON(http.StatusCreated, follow)
}

func (h *Handler) Followers(c *gin.Context) {
	follows, err := h.Follows.Followers(c.Request.Context(), h.viewer(c), c.Query("user"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, follows)
}

func (h *Handler) Following(c *gin.Context) {
	follows, err := h.Follows.Following(c.Request.Context(), h.viewer(c), c.Query("user"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, follows)
}
