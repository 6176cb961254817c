package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Prashanty2005/Cargo-Connect/internal/models"
)

// Memory is an in-process Store and NotificationLog. All operations hold a
// single mutex, which makes CreatePayment a true check-and-insert and keeps
// the shipment projection write ordered after the payment's own status write.
type Memory struct {
	mu            sync.RWMutex
	payments      map[string]*models.Payment
	byShipment    map[string][]string
	shipments     map[string]*models.ShipmentPayment
	notifications map[string][]*models.Notification
}

func NewMemory() *Memory {
	return &Memory{
		payments:      make(map[string]*models.Payment),
		byShipment:    make(map[string][]string),
		shipments:     make(map[string]*models.ShipmentPayment),
		notifications: make(map[string][]*models.Notification),
	}
}

func (m *Memory) CreatePayment(_ context.Context, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.byShipment[payment.ShipmentID] {
		if !m.payments[id].Status.Terminal() {
			return ErrActivePaymentExists
		}
	}

	if _, exists := m.payments[payment.ID]; exists {
		return ErrDuplicatePaymentID
	}

	p := *payment
	m.payments[p.ID] = &p
	m.byShipment[p.ShipmentID] = append(m.byShipment[p.ShipmentID], p.ID)
	return nil
}

func (m *Memory) GetPayment(_ context.Context, id string) (*models.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return clonePayment(p), nil
}

func (m *Memory) GetPaymentByShipment(_ context.Context, shipmentID string) (*models.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byShipment[shipmentID]
	if len(ids) == 0 {
		return nil, ErrPaymentNotFound
	}

	var latest *models.Payment
	for _, id := range ids {
		p := m.payments[id]
		if !p.Status.Terminal() {
			return clonePayment(p), nil
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	return clonePayment(latest), nil
}

func (m *Memory) MarkCompleted(_ context.Context, id string, confirmedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok {
		return ErrPaymentNotFound
	}
	if p.Status.Terminal() {
		return ErrAlreadyTerminal
	}

	p.Status = models.PaymentStatusCompleted
	t := confirmedAt
	p.ConfirmedAt = &t
	return nil
}

func (m *Memory) SetShipmentStatus(_ context.Context, shipmentID string, status models.ShipmentPaymentStatus, method models.PaymentMethod, details *models.PaymentDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sp, ok := m.shipments[shipmentID]
	if !ok {
		sp = &models.ShipmentPayment{ShipmentID: shipmentID}
		m.shipments[shipmentID] = sp
	}

	sp.PaymentStatus = status
	sp.PaymentMethod = method
	if details != nil {
		d := *details
		sp.PaymentDetails = &d
	}
	sp.UpdatedAt = time.Now()
	return nil
}

func (m *Memory) GetShipmentStatus(_ context.Context, shipmentID string) (*models.ShipmentPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sp, ok := m.shipments[shipmentID]
	if !ok {
		return nil, nil
	}

	out := *sp
	if sp.PaymentDetails != nil {
		d := *sp.PaymentDetails
		out.PaymentDetails = &d
	}
	return &out, nil
}

func (m *Memory) ListStaleProcessing(_ context.Context, olderThan time.Time) ([]*models.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stale []*models.Payment
	for _, p := range m.payments {
		if p.Status == models.PaymentStatusProcessing && p.CreatedAt.Before(olderThan) {
			stale = append(stale, clonePayment(p))
		}
	}

	sort.Slice(stale, func(i, j int) bool { return stale[i].CreatedAt.Before(stale[j].CreatedAt) })
	return stale, nil
}

func (m *Memory) CreateNotification(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	nn := *n
	m.notifications[n.UserID] = append(m.notifications[n.UserID], &nn)
	return nil
}

func (m *Memory) ListNotifications(_ context.Context, userID string, limit int) ([]*models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.notifications[userID]
	out := make([]*models.Notification, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		nn := *all[i]
		out = append(out, &nn)
	}
	return out, nil
}

func clonePayment(p *models.Payment) *models.Payment {
	out := *p
	if p.ConfirmedAt != nil {
		t := *p.ConfirmedAt
		out.ConfirmedAt = &t
	}
	return &out
}
