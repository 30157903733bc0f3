package handlers

import (
	"net/http"

	"socialbook/services"

	"github.com/gin-gonic/gin"
)

type profileUpdateRequest struct {
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
}

// profileChanges принимает и JSON, и multipart (с файлом profileimg)
func profileChanges(c *gin.Context) (services.ProfileChanges, func(), error) {
	var changes services.ProfileChanges
	if !isMultipart(c) {
		var req profileUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return changes, func() {}, services.ErrInvalidInput
		}
		changes.Bio, changes.Location = req.Bio, req.Location
		return changes, func() {}, nil
	}
	changes.Bio = formString(c, "bio")
	changes.Location = formString(c, "location")
	upload, closer, err := formUpload(c, "profileimg")
	if err != nil {
		return changes, func() {}, services.ErrInvalidInput
	}
	changes.Image = upload
	return changes, func() { closeQuietly(closer) }, nil
}

func (h *Handler) ListProfiles(c *gin.Context) {
	profiles, err := h.Profiles.List(c.Request.Context(), h.viewer(c), c.Query("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *Handler) GetProfile(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	profile, err := h.Profiles.Get(c.Request.Context(), h.viewer(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// CreateProfile: профиль создается вместе с пользователем при регистрации
func (h *Handler) CreateProfile(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": `Method "POST" not allowed.`})
}

// UpdateProfile serves both PUT and PATCH; omitted fields are left unchanged.
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	changes, done, err := profileChanges(c)
	defer done()
	if err != nil {
		respondError(c, err)
		return
	}
	profile, err := h.Profiles.Update(c.Request.Context(), h.viewer(c), id, changes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) MyProfile(c *gin.Context) {
	v := h.viewer(c)
	profile, err := h.Profiles.ByUserID(c.Request.Context(), v, v.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateMyProfile(c *gin.Context) {
	changes, done, err := profileChanges(c)
	defer done()
	if err != nil {
		respondError(c, err)
		return
	}
	profile, err := h.Profiles.UpdateMe(c.Request.Context(), h.viewer(c), changes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
