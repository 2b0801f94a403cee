package api

import (
	"net/http"

	"fio-market/internal/handler/middleware"
	"fio-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationQueries queries.NotificationQueries
}

func NewNotificationHandler(notificationQueries queries.NotificationQueries) *NotificationHandler {
	return &NotificationHandler{
		notificationQueries: notificationQueries,
	}
}

// @Summary List notifications
// @Description The caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} queries.Notification
// @Failure 401 {object} map[string]string
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	unreadOnly := c.Query("unread") == "true"

	list, err := h.notificationQueries.ListNotifications(c.Request.Context(), identity, unreadOnly)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary Mark notification read
// @Description Mark one of the caller's notifications as read
// @Tags notifications
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid notification ID format",
		})
		return
	}

	if err := h.notificationQueries.MarkNotificationRead(c.Request.Context(), identity, id); err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
