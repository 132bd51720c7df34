// Settings HTTP handlers.
//
//   - GET  /settings  (masked search credentials of the current user)
//   - POST /settings  (upsert; a blank or masked secret keeps the stored one)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SaveSettingsRequest is the JSON payload for storing search credentials.
type SaveSettingsRequest struct {
	ClientID     string `json:"clientId" binding:"required" example:"aBcDeFgHiJ"`
	ClientSecret string `json:"clientSecret" example:"s3cr3t"`
}

// GetSettings godoc
// @ID          getSettings
// @Summary     Read search credentials
// @Description Returns the client id and a masked secret of the current user.
// @Tags        Settings
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
//
// @Success     200  {object} services.Settings
// @Failure     401  {object} handlers.ErrorResponse "Missing X-User-ID"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /settings [get]
func (h *Handlers) GetSettings(c *gin.Context) {
	s, err := h.settingsSvc.Get(c.Request.Context(), userID(c))
	if err != nil {
		failFor(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, s)
}

// SaveSettings godoc
// @ID          saveSettings
// @Summary     Store search credentials
// @Description Upserts the client id and secret of the current user. Sending an empty or masked secret keeps the stored secret.
// @Tags        Settings
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       body       body    handlers.SaveSettingsRequest  true  "Credentials"
//
// @Success     200  {object} services.Settings
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing X-User-ID"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /settings [post]
func (h *Handlers) SaveSettings(c *gin.Context) {
	var req SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "clientId required")
		return
	}
	s, err := h.settingsSvc.Save(c.Request.Context(), userID(c), req.ClientID, req.ClientSecret)
	if err != nil {
		failFor(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, s)
}
