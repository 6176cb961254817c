package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Prashanty2005/Cargo-Connect/internal/service"
	"github.com/Prashanty2005/Cargo-Connect/pkg/middleware"
	"github.com/Prashanty2005/Cargo-Connect/pkg/redis"
)

type NotificationHandler struct {
	notifier    *service.Notifier
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewNotificationHandler(notifier *service.Notifier, redisClient *redis.Client, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifier:    notifier,
		redisClient: redisClient,
		logger:      logger,
	}
}

// ListNotifications handles GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	notifications, err := h.notifier.List(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// StreamNotifications handles GET /api/v1/notifications/stream. It bridges
// the user's pub/sub channel onto a server-sent event stream; events are
// delivered only while the session is connected.
func (h *NotificationHandler) StreamNotifications(c *gin.Context) {
	if h.redisClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Push notifications unavailable"})
		return
	}

	userID := c.GetString(middleware.UserIDKey)

	sub := h.redisClient.Subscribe(c.Request.Context(), service.ChannelFor(userID))
	defer sub.Close()

	ch := sub.Channel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("notification", msg.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
