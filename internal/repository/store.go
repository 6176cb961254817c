package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Prashanty2005/Cargo-Connect/internal/models"
)

var (
	// ErrActivePaymentExists is returned by CreatePayment when a
	// non-terminal payment already exists for the shipment.
	ErrActivePaymentExists = errors.New("an active payment already exists for this shipment")

	ErrPaymentNotFound = errors.New("payment not found")

	// ErrDuplicatePaymentID is returned by CreatePayment when the generated
	// transaction identifier is already taken. The caller regenerates and
	// retries.
	ErrDuplicatePaymentID = errors.New("payment id already exists")

	// ErrAlreadyTerminal is returned by MarkCompleted when the payment has
	// already reached a terminal state.
	ErrAlreadyTerminal = errors.New("payment is already in a terminal state")
)

// Store is the single source of truth for payments and the shipment payment
// projection. CreatePayment must be an atomic check-and-insert: at most one
// non-terminal payment may exist per shipment at any time.
type Store interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	GetPaymentByShipment(ctx context.Context, shipmentID string) (*models.Payment, error)
	MarkCompleted(ctx context.Context, id string, confirmedAt time.Time) error
	SetShipmentStatus(ctx context.Context, shipmentID string, status models.ShipmentPaymentStatus, method models.PaymentMethod, details *models.PaymentDetails) error
	GetShipmentStatus(ctx context.Context, shipmentID string) (*models.ShipmentPayment, error)
	ListStaleProcessing(ctx context.Context, olderThan time.Time) ([]*models.Payment, error)
}

// NotificationLog is the durable notification store. Rows are written once
// per terminal transition and listed by recency on reconnect.
type NotificationLog interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
}
