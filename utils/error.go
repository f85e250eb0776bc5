package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	// Kind lets the client branch on the failure class (validation, conflict, backend).
	Kind string `json:"kind,omitempty"`
	// Index is the offending cart position for checkout failures.
	Index *int `json:"index,omitempty"`
	// Redirect tells the client where to navigate next.
	Redirect string `json:"redirect,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// JSONErrorResponse writes a fully populated error body.
func JSONErrorResponse(c *gin.Context, status int, resp ErrorResponse) {
	GetLogger().Warn(resp.Message,
		zap.String("kind", resp.Kind),
		zap.String("details", resp.Details),
		zap.Int("status", status))
	c.JSON(status, resp)
}
