package handlers

import (
	"net/http"

	"socialbook/api/middleware"
	"socialbook/services"

	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	Post string `json:"post"`
	Body string `json:"body"`
}

func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.Comments.List(c.Request.Context(), h.viewer(c), c.Query("post"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *Handler) GetComment(c *gin.Context) {
	comment, err := h.Comments.Get(c.Request.Context(), h.viewer(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *Handler) CreateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrInvalidInput)
		return
	}
	comment, err := h.Comments.Create(c.Request.Context(), h.viewer(c), req.Post, req.Body)
	middleware.RecordAction("comment", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) DeleteComment(c *gin.Context) {
	if err := h.Comments.Delete(c.Request.Context(), h.viewer(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
