package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Prashanty2005/Cargo-Connect/internal/metrics"
	"github.com/Prashanty2005/Cargo-Connect/internal/repository"
)

// Reconciler is an optional sweep for payments orphaned in processing after
// a restart, since confirmation timers are not persisted. It only reports:
// completing an orphan would invent an outcome the settlement path never
// produced. Disabled unless RECONCILER_ENABLED is set.
type Reconciler struct {
	store      repository.Store
	logger     *zap.Logger
	interval   time.Duration
	staleAfter time.Duration
	quit       chan struct{}
	done       chan struct{}
}

func NewReconciler(store repository.Store, logger *zap.Logger, interval, staleAfter time.Duration) *Reconciler {
	return &Reconciler{
		store:      store,
		logger:     logger,
		interval:   interval,
		staleAfter: staleAfter,
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (r *Reconciler) Start() {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.Sweep(context.Background())
			case <-r.quit:
				return
			}
		}
	}()
}

func (r *Reconciler) Stop() {
	close(r.quit)
	<-r.done
}

// Sweep lists payments stuck in processing past the confirmation window.
func (r *Reconciler) Sweep(ctx context.Context) {
	stale, err := r.store.ListStaleProcessing(ctx, time.Now().Add(-r.staleAfter))
	if err != nil {
		r.logger.Error("stale payment sweep failed", zap.Error(err))
		return
	}

	metrics.StaleProcessingPayments.Set(float64(len(stale)))

	for _, p := range stale {
		r.logger.Warn("payment orphaned in processing",
			zap.String("payment_id", p.ID),
			zap.String("shipment_id", p.ShipmentID),
			zap.Time("created_at", p.CreatedAt))
	}
}
