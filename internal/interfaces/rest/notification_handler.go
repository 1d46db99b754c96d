package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulsecrm/reporting/internal/application/services"
	"github.com/pulsecrm/reporting/pkg/errors"
	"github.com/pulsecrm/reporting/pkg/utils"
)

// NotificationHandler serves the toast inbox.
type NotificationHandler struct {
	svc *services.ServiceManager
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(svc *services.ServiceManager) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// ListUnread returns the caller's unread notifications
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		RespondAppError(c, errors.NewUnauthorizedError("session not found"))
		return
	}

	notifications, err := h.svc.Notifications.ListUnread(c.Request.Context(), user.TenantID, user.ID)
	if err != nil {
		RespondAppError(c, errors.NewInternalError("failed to load notifications", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead flags one notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		RespondAppError(c, errors.NewUnauthorizedError("session not found"))
		return
	}

	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		RespondAppError(c, errors.NewValidationError("id", "not a valid notification id"))
		return
	}
	if err := h.svc.Notifications.MarkRead(c.Request.Context(), user.TenantID, user.ID, id); err != nil {
		RespondAppError(c, errors.NewInternalError("failed to mark notification read", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
