package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Prashanty2005/Cargo-Connect/internal/metrics"
	"github.com/Prashanty2005/Cargo-Connect/internal/models"
	"github.com/Prashanty2005/Cargo-Connect/internal/repository"
)

// ConfirmationSimulator schedules the single deferred transition each
// initiated payment goes through: after a method-dependent delay the payment
// flips to completed, a notification is enqueued, and the shipment
// projection becomes paid, in that order. The deferred path never produces
// a failed outcome.
//
// Timers live in process memory only. If the process dies before a timer
// fires, the payment stays in processing; the reconciler reports such
// orphans but does not resolve them.
type ConfirmationSimulator struct {
	store    repository.Store
	notifier *Notifier
	logger   *zap.Logger

	lightningDelay time.Duration
	standardDelay  time.Duration
	retryAttempts  int
	retryBackoff   time.Duration

	wg sync.WaitGroup
}

// SimulatorOption adjusts simulator timing, used by tests.
type SimulatorOption func(*ConfirmationSimulator)

func WithDelays(lightning, standard time.Duration) SimulatorOption {
	return func(s *ConfirmationSimulator) {
		s.lightningDelay = lightning
		s.standardDelay = standard
	}
}

func WithRetryPolicy(attempts int, backoff time.Duration) SimulatorOption {
	return func(s *ConfirmationSimulator) {
		s.retryAttempts = attempts
		s.retryBackoff = backoff
	}
}

func NewConfirmationSimulator(store repository.Store, notifier *Notifier, logger *zap.Logger, opts ...SimulatorOption) *ConfirmationSimulator {
	s := &ConfirmationSimulator{
		store:          store,
		notifier:       notifier,
		logger:         logger,
		lightningDelay: 2 * time.Second,
		standardDelay:  5 * time.Second,
		retryAttempts:  3,
		retryBackoff:   500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delay returns the confirmation delay for the method/network pair.
// Lightning settles faster than everything else.
func (s *ConfirmationSimulator) Delay(method models.PaymentMethod, network string) time.Duration {
	if network == models.NetworkLightning {
		return s.lightningDelay
	}
	return s.standardDelay
}

// Schedule starts the deferred confirmation for the payment. It returns
// immediately; the caller's initiate call must never block on confirmation.
func (s *ConfirmationSimulator) Schedule(payment *models.Payment) {
	delay := s.Delay(payment.Method, payment.Network)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		time.Sleep(delay)
		s.confirm(payment)
	}()
}

func (s *ConfirmationSimulator) confirm(payment *models.Payment) {
	ctx := context.Background()
	confirmedAt := time.Now()

	err := s.withRetry(func() error {
		return s.store.MarkCompleted(ctx, payment.ID, confirmedAt)
	})
	if errors.Is(err, repository.ErrAlreadyTerminal) {
		return
	}
	if err != nil {
		s.logger.Error("confirmation write failed, payment left in processing",
			zap.String("payment_id", payment.ID),
			zap.String("shipment_id", payment.ShipmentID),
			zap.Error(err))
		return
	}

	metrics.PaymentsCompleted.WithLabelValues(string(payment.Method)).Inc()
	metrics.ConfirmationDuration.Observe(confirmedAt.Sub(payment.CreatedAt).Seconds())

	err = s.withRetry(func() error {
		return s.notifier.Notify(ctx, ConfirmationNotification(payment))
	})
	if err != nil {
		s.logger.Error("failed to record confirmation notification",
			zap.String("payment_id", payment.ID),
			zap.Error(err))
	}

	err = s.withRetry(func() error {
		return s.store.SetShipmentStatus(ctx, payment.ShipmentID, models.ShipmentPaymentPaid, payment.Method, nil)
	})
	if err != nil {
		s.logger.Error("failed to mark shipment paid",
			zap.String("payment_id", payment.ID),
			zap.String("shipment_id", payment.ShipmentID),
			zap.Error(err))
		return
	}

	s.logger.Info("payment confirmed",
		zap.String("payment_id", payment.ID),
		zap.String("shipment_id", payment.ShipmentID),
		zap.String("method", string(payment.Method)))
}

func (s *ConfirmationSimulator) withRetry(fn func() error) error {
	var err error
	backoff := s.retryBackoff

	for attempt := 1; attempt <= s.retryAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if errors.Is(err, repository.ErrAlreadyTerminal) {
			return err
		}
		if attempt < s.retryAttempts {
			metrics.ConfirmationRetries.Inc()
			time.Sleep(backoff)
			backoff *= 2
		}
	}

	return err
}

// Shutdown waits for in-flight confirmations, up to the context deadline.
func (s *ConfirmationSimulator) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
