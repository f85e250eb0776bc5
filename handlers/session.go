package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomm8/middleware"
	"roomm8/services/backend"
	"roomm8/utils"
)

type loginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler authenticates against the backend and returns where the
// browser should go next.
func (hb *HandlerBundle) LoginHandler(c *gin.Context) {
	logger := getLogger(c)
	ws := middleware.WorkspaceFrom(c)

	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid login request", err)
		return
	}

	res, err := hb.Backend("").Login(c.Request.Context(), strings.TrimSpace(input.Email), input.Password)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			utils.JSONErrorResponse(c, http.StatusUnauthorized, utils.ErrorResponse{Message: apiErr.Message})
			return
		}
		respondError(c, err, "Login failed")
		return
	}

	if err := ws.Gate.Login(c.Request.Context(), res.Identity, res.Token); err != nil {
		logger.Error("Failed to store session", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to store session", err.Error())
		return
	}

	redirect, err := ws.Gate.ConsumeRedirect(c.Request.Context())
	if err != nil {
		logger.Warn("Failed to read login redirect", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{
		"session":  ws.Gate.Current().View(),
		"redirect": redirect,
	})
}

// LogoutHandler clears the session, its pending cart and its redirect.
func (hb *HandlerBundle) LogoutHandler(c *gin.Context) {
	ws := middleware.WorkspaceFrom(c)
	if err := ws.Gate.Logout(c.Request.Context()); err != nil {
		getLogger(c).Error("Failed to clear session", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to logout", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": ws.Gate.Current().View()})
}

func (hb *HandlerBundle) GetSessionHandler(c *gin.Context) {
	ws := middleware.WorkspaceFrom(c)
	c.JSON(http.StatusOK, gin.H{"session": ws.Gate.Current().View()})
}
