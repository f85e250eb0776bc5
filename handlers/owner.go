package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomm8/middleware"
	"roomm8/models"
)

type statusInput struct {
	Status string `json:"status" binding:"required"`
}

func (hb *HandlerBundle) OwnerPropertiesHandler(c *gin.Context) {
	auth := middleware.WorkspaceFrom(c).Gate.Current()
	rooms, err := hb.backendFor(auth).OwnerProperties(c.Request.Context(), auth.Email)
	if err != nil {
		respondError(c, err, "Failed to load properties")
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": rooms})
}

// DeletePropertyHandler removes the listing from the catalog first and
// restores it if the backend refuses the delete.
func (hb *HandlerBundle) DeletePropertyHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	auth := middleware.WorkspaceFrom(c).Gate.Current()
	api := hb.backendFor(auth)

	err := hb.Catalog.Remove(c.Request.Context(), id, func(ctx context.Context) error {
		return api.DeleteProperty(ctx, id, auth.Email)
	})
	if err != nil {
		respondError(c, err, "Failed to delete property")
		return
	}
	getLogger(c).Info("Property deleted", zap.Int64("propertyId", id), zap.String("by", auth.Email))
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted", "id": id})
}

func (hb *HandlerBundle) UpdatePropertyStatusHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid status update", err)
		return
	}
	status := strings.ToUpper(strings.TrimSpace(input.Status))
	switch status {
	case models.PropertyPending, models.PropertyApproved, models.PropertyRejected:
	default:
		badRequest(c, "status must be PENDING, APPROVED or REJECTED", nil)
		return
	}

	auth := middleware.WorkspaceFrom(c).Gate.Current()
	if err := hb.backendFor(auth).UpdatePropertyStatus(c.Request.Context(), id, status); err != nil {
		respondError(c, err, "Failed to update property status")
		return
	}
	hb.Catalog.Invalidate()
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}
