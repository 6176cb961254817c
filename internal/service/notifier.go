package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Prashanty2005/Cargo-Connect/internal/metrics"
	"github.com/Prashanty2005/Cargo-Connect/internal/models"
	"github.com/Prashanty2005/Cargo-Connect/internal/repository"
	"github.com/Prashanty2005/Cargo-Connect/pkg/redis"
)

// Notifier writes the durable notification log and pushes a one-shot event
// to the user's active sessions. The push is fire-and-forget: a client
// receives it only if its session is listening at push time, and can list
// the log on reconnect.
type Notifier struct {
	log         repository.NotificationLog
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewNotifier(log repository.NotificationLog, redisClient *redis.Client, logger *zap.Logger) *Notifier {
	return &Notifier{
		log:         log,
		redisClient: redisClient,
		logger:      logger,
	}
}

// Notify persists the notification, then publishes it. The durable write is
// the contract; a publish failure is logged and swallowed.
func (n *Notifier) Notify(ctx context.Context, notification *models.Notification) error {
	if err := n.log.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to write notification log: %w", err)
	}

	if n.redisClient == nil {
		return nil
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		n.logger.Warn("failed to marshal notification for push", zap.Error(err))
		return nil
	}

	if err := n.redisClient.Publish(ctx, ChannelFor(notification.UserID), payload); err != nil {
		n.logger.Warn("failed to push notification",
			zap.String("user_id", notification.UserID),
			zap.Error(err))
		return nil
	}

	metrics.NotificationsPublished.Inc()
	return nil
}

// List returns the user's notifications ordered by recency.
func (n *Notifier) List(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	return n.log.ListNotifications(ctx, userID, limit)
}

// ChannelFor names the pub/sub channel carrying a user's push events.
func ChannelFor(userID string) string {
	return "notifications:" + userID
}

// ConfirmationNotification builds the notification emitted when a payment
// reaches completed.
func ConfirmationNotification(payment *models.Payment) *models.Notification {
	var title, label string
	switch payment.Method {
	case models.MethodBitcoin:
		title = "Bitcoin Payment Confirmed"
		label = "Bitcoin"
	case models.MethodBlockchain:
		title = "Blockchain Payment Confirmed"
		label = "blockchain"
	default:
		title = "Payment Confirmed"
		label = string(payment.Method)
	}

	return &models.Notification{
		ID:     uuid.New().String(),
		UserID: payment.UserID,
		Title:  title,
		Message: fmt.Sprintf("Your %s payment of %s %s for shipment %s has been confirmed.",
			label, payment.Amount.String(), payment.Currency, payment.ShipmentID),
		Link:      "/shipment/" + payment.ShipmentID,
		CreatedAt: time.Now(),
	}
}
