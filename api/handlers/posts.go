package handlers

import (
	"net/http"

	"socialbook/api/middleware"
	"socialbook/services"

	"github.com/gin-gonic/gin"
)

type postUpdateRequest struct {
	Caption *string `json:"caption"`
}

func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.Posts.List(c.Request.Context(), h.viewer(c), c.Query("user"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.Posts.Get(c.Request.Context(), h.viewer(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost принимает multipart: image (файл) и caption
func (h *Handler) CreatePost(c *gin.Context) {
	if !isMultipart(c) {
		respondError(c, services.ErrImageRequired)
		return
	}
	upload, closer, err := formUpload(c, "image")
	defer closeQuietly(closer)
	if err != nil {
		respondError(c, services.ErrInvalidInput)
		return
	}
	post, err := h.Posts.Create(c.Request.Context(), h.viewer(c), c.PostForm("caption"), upload)
	middleware.RecordAction("post", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost serves PUT and PATCH, as JSON or multipart.
func (h *Handler) UpdatePost(c *gin.Context) {
	var changes services.PostChanges
	if isMultipart(c) {
		changes.Caption = formString(c, "caption")
		upload, closer, err := formUpload(c, "image")
		defer closeQuietly(closer)
		if err != nil {
			respondError(c, services.ErrInvalidInput)
			return
		}
		changes.Image = upload
	} else {
		var req postUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, services.ErrInvalidInput)
			return
		}
		changes.Caption = req.Caption
	}
	post, err := h.Posts.Update(c.Request.Context(), h.viewer(c), c.Param("id"), changes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.Posts.Delete(c.Request.Context(), h.viewer(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) LikePost(c *gin.Context) {
	result, created, err := h.Posts.Like(c.Request.Context(), h.viewer(c), c.Param("id"))
	middleware.RecordAction("like", err)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (h *Handler) UnlikePost(c *gin.Context) {
	result, err := h.Posts.Unlike(c.Request.Context(), h.viewer(c), c.Param("id"))
	middleware.RecordAction("unlike", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Feed(c *gin.Context) {
	posts, err := h.Posts.Feed(c.Request.Context(), h.viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) Suggestions(c *gin.Context) {
	profiles, err := h.Posts.Suggestions(c.Request.Context(), h.viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}
