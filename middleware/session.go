package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"roomm8/services/session"
	"roomm8/utils"
)

// CookieOptions controls the session cookie.
type CookieOptions struct {
	MaxAge int
	Secure bool
}

// SessionMiddleware binds every request to a browser workspace, issuing a
// fresh session cookie when the request carries none or a malformed one.
func SessionMiddleware(manager *session.Manager, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(utils.SessionCookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.New().String()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(utils.SessionCookieName, id, opts.MaxAge, "/", "", opts.Secure, true)

		ws, err := manager.Get(c.Request.Context(), id)
		if err != nil {
			utils.GetLogger().Error("Failed to load session", zap.String("sessionId", id), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, utils.ErrorResponse{
				Message: "Session store unavailable",
				Details: err.Error(),
			})
			return
		}
		c.Set(utils.ContextSessionID, id)
		c.Set(utils.ContextWorkspace, ws)
		c.Next()
	}
}

// WorkspaceFrom returns the workspace bound by SessionMiddleware.
func WorkspaceFrom(c *gin.Context) *session.Workspace {
	v, ok := c.Get(utils.ContextWorkspace)
	if !ok {
		return nil
	}
	ws, _ := v.(*session.Workspace)
	return ws
}
