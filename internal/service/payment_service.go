package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Prashanty2005/Cargo-Connect/internal/metrics"
	"github.com/Prashanty2005/Cargo-Connect/internal/models"
	"github.com/Prashanty2005/Cargo-Connect/internal/repository"
	"github.com/Prashanty2005/Cargo-Connect/internal/validation"
)

// IdempotencyCache caches initiate responses keyed by idempotency key. The
// shared redis client satisfies it.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// PaymentService owns the synchronous half of the payment lifecycle:
// validation, the atomic creation of the processing record, and scheduling
// of the deferred confirmation. Callers always get either a definite
// rejection or a processing acknowledgment; the terminal outcome arrives
// later via the notification/poll path.
type PaymentService struct {
	store     repository.Store
	cache     IdempotencyCache
	simulator *ConfirmationSimulator
	logger    *zap.Logger
}

func NewPaymentService(store repository.Store, cache IdempotencyCache, simulator *ConfirmationSimulator, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		store:     store,
		cache:     cache,
		simulator: simulator,
		logger:    logger,
	}
}

// InitiatePayment validates the request, creates the processing payment
// record, writes the initial shipment projection and schedules the deferred
// confirmation. It never blocks on confirmation.
func (s *PaymentService) InitiatePayment(ctx context.Context, userID string, req *models.PaymentRequest) (*models.Payment, error) {
	if err := validation.ValidateRequest(req); err != nil {
		return nil, err
	}

	// Check idempotency key
	if req.IdempotencyKey != "" {
		if cached := s.getIdempotentPayment(ctx, req.IdempotencyKey); cached != nil {
			return cached, nil
		}
	}

	payment := &models.Payment{
		ShipmentID:    req.ShipmentID,
		UserID:        userID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Method:        req.Method,
		Network:       req.Network,
		WalletAddress: req.WalletAddress,
		Status:        models.PaymentStatusProcessing,
		CreatedAt:     time.Now(),
	}

	if req.Method == models.MethodCard {
		payment.CardLast4 = req.CardNumber[len(req.CardNumber)-4:]
		payment.CardNetwork = validation.DetectCardNetwork(req.CardNumber)
	}

	// Atomic check-and-insert; a concurrent duplicate loses here, not in a
	// read-then-write race. A colliding generated identifier is regenerated.
	// If the write fails the payment was never initiated.
	const maxIDAttempts = 3
	for attempt := 1; ; attempt++ {
		payment.ID = NewTransactionID(req.Method, req.Network)
		err := s.store.CreatePayment(ctx, payment)
		if err == nil {
			break
		}
		if err == repository.ErrActivePaymentExists {
			return nil, err
		}
		if err == repository.ErrDuplicatePaymentID && attempt < maxIDAttempts {
			continue
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	details := &models.PaymentDetails{
		TransactionHash:       payment.ID,
		BlockchainNetwork:     payment.Network,
		EstimatedConfirmation: EstimatedConfirmation(payment.Method, payment.Network),
	}
	if err := s.store.SetShipmentStatus(ctx, payment.ShipmentID, models.ShipmentPaymentProcessing, payment.Method, details); err != nil {
		// Payment exists but the projection write failed; the deferred
		// confirmation will write the projection again.
		s.logger.Error("failed to set shipment processing status",
			zap.String("shipment_id", payment.ShipmentID),
			zap.Error(err))
	}

	s.simulator.Schedule(payment)

	if req.IdempotencyKey != "" {
		s.cacheIdempotentPayment(ctx, req.IdempotencyKey, payment)
	}

	metrics.PaymentsInitiated.WithLabelValues(string(payment.Method)).Inc()
	s.logger.Info("payment initiated",
		zap.String("payment_id", payment.ID),
		zap.String("shipment_id", payment.ShipmentID),
		zap.String("method", string(payment.Method)),
		zap.String("network", payment.Network))

	return payment, nil
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	return s.store.GetPayment(ctx, paymentID)
}

// GetShipmentPayment returns the shipment's payment together with the
// denormalized projection.
func (s *PaymentService) GetShipmentPayment(ctx context.Context, shipmentID string) (*models.Payment, *models.ShipmentPayment, error) {
	payment, err := s.store.GetPaymentByShipment(ctx, shipmentID)
	if err != nil {
		return nil, nil, err
	}

	projection, err := s.store.GetShipmentStatus(ctx, shipmentID)
	if err != nil {
		return nil, nil, err
	}

	return payment, projection, nil
}

func (s *PaymentService) getIdempotentPayment(ctx context.Context, key string) *models.Payment {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, "idempotency:"+key)
	if err != nil {
		return nil
	}

	var payment models.Payment
	if err := json.Unmarshal([]byte(data), &payment); err != nil {
		return nil
	}

	return &payment
}

func (s *PaymentService) cacheIdempotentPayment(ctx context.Context, key string, payment *models.Payment) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(payment)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, "idempotency:"+key, data, 24*time.Hour); err != nil {
		s.logger.Warn("failed to cache idempotent payment", zap.Error(err))
	}
}
