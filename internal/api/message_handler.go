package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"coachpad/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler holds the messaging and notification service dependency.
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// SendMessage godoc
// @Summary Send a message to the other side of the coaching relationship
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Receiver user ID"
// @Param message body SendMessageRequest true "Message body"
// @Success 201 {object} domain.Message
// @Failure 403 {object} gin.H "Users are not coach and client"
// @Router /messages/{userId} [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	sender, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}
	receiverID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	message, err := h.messageService.SendMessage(c.Request.Context(), sender.ID, receiverID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMessageDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrEmptyMessage):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to send message")
		}
		return
	}
	c.JSON(http.StatusCreated, message)
}

// GetThread godoc
// @Summary Get the conversation thread with another user
// @Description Returns messages newest-first. Pass before (RFC 3339) to page backwards.
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Other user ID"
// @Param before query string false "Only messages sent before this timestamp"
// @Param limit query int false "Page size (max 50)"
// @Success 200 {array} domain.Message
// @Failure 403 {object} gin.H "Users are not coach and client"
// @Router /messages/{userId} [get]
func (h *MessageHandler) GetThread(c *gin.Context) {
	requester, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}
	otherID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var before time.Time
	if raw := c.Query("before"); raw != "" {
		before, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "before must be an RFC 3339 timestamp")
			return
		}
	}
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	messages, err := h.messageService.GetThread(c.Request.Context(), requester.ID, otherID, before, limit)
	if err != nil {
		if errors.Is(err, service.ErrMessageDenied) {
			abortWithError(c, http.StatusForbidden, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch thread")
		return
	}
	c.JSON(http.StatusOK, messages)
}

// MarkThreadRead godoc
// @Summary Mark every message from another user as read
// @Tags Messages
// @Security BearerAuth
// @Param userId path string true "Other user ID"
// @Success 204 "Marked"
// @Router /messages/{userId}/read [post]
func (h *MessageHandler) MarkThreadRead(c *gin.Context) {
	requester, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}
	otherID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.messageService.MarkThreadRead(c.Request.Context(), requester.ID, otherID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to mark thread read")
		return
	}
	c.Status(http.StatusNoContent)
}

// CountUnread godoc
// @Summary Count unread messages for the authenticated user
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "unread"
// @Router /messages/unread-count [get]
func (h *MessageHandler) CountUnread(c *gin.Context) {
	requester, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	count, err := h.messageService.CountUnread(c.Request.Context(), requester.ID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to count unread messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// === Notifications ===

// GetNotifications godoc
// @Summary List the authenticated user's notifications, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} domain.Notification
// @Router /notifications [get]
func (h *MessageHandler) GetNotifications(c *gin.Context) {
	requester, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)

	notifications, err := h.messageService.GetNotifications(c.Request.Context(), requester.ID, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead godoc
// @Summary Mark one notification as read
// @Tags Notifications
// @Security BearerAuth
// @Param notificationId path string true "Notification ID"
// @Success 204 "Marked"
// @Failure 404 {object} gin.H "Notification not found"
// @Router /notifications/{notificationId}/read [post]
func (h *MessageHandler) MarkNotificationRead(c *gin.Context) {
	requester, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}
	notificationID, ok := parseIDParam(c, "notificationId")
	if !ok {
		return
	}

	if err := h.messageService.MarkNotificationRead(c.Request.Context(), requester.ID, notificationID); err != nil {
		if errors.Is(err, service.ErrNotificationNot) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to mark notification read")
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllNotificationsRead godoc
// @Summary Mark every notification as read
// @Tags Notifications
// @Security BearerAuth
// @Success 204 "Marked"
// @Router /notifications/read-all [post]
func (h *MessageHandler) MarkAllNotificationsRead(c *gin.Context) {
	requester, err := getAuthenticatedUser(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	if err := h.messageService.MarkAllNotificationsRead(c.Request.Context(), requester.ID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to mark notifications read")
		return
	}
	c.Status(http.StatusNoContent)
}
