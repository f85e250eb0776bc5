package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomm8/models"
	"roomm8/utils"
)

// RequireRole lets through authenticated sessions holding one of roles.
// With no roles listed any authenticated session passes.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := WorkspaceFrom(c)
		if ws == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse{Message: "Session not bound"})
			return
		}
		current := ws.Gate.Current()
		if !current.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Message:  "Please login to continue",
				Redirect: "/login",
			})
			return
		}
		if len(roles) == 0 {
			c.Next()
			return
		}
		for _, r := range roles {
			if current.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
			Message: "Access denied",
			Details: "role " + string(current.Role) + " may not call this endpoint",
		})
	}
}
