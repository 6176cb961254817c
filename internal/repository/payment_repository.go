package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Prashanty2005/Cargo-Connect/internal/models"
)

// PaymentRepository is the PostgreSQL-backed Store. The single-active-payment
// invariant is enforced by the partial unique index on (shipment_id) for
// non-terminal rows, so concurrent initiations resolve in the database rather
// than in a read-then-write race.
type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (
			id, shipment_id, user_id, amount, currency, method, network,
			wallet_address, card_last4, card_network, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (shipment_id) WHERE status IN ('pending', 'processing') DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.ShipmentID,
		payment.UserID,
		payment.Amount,
		payment.Currency,
		payment.Method,
		payment.Network,
		payment.WalletAddress,
		payment.CardLast4,
		payment.CardNetwork,
		payment.Status,
		payment.CreatedAt,
	)
	if err != nil {
		// The active-shipment conflict is absorbed by ON CONFLICT DO
		// NOTHING, so a unique violation here is the id primary key.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicatePaymentID
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read insert result: %w", err)
	}
	if rows == 0 {
		return ErrActivePaymentExists
	}

	return nil
}

func (r *PaymentRepository) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	query := selectPayment + ` WHERE id = $1`
	return r.scanPayment(r.db.QueryRowContext(ctx, query, id))
}

// GetPaymentByShipment returns the active payment for the shipment if one
// exists, otherwise the most recently created one.
func (r *PaymentRepository) GetPaymentByShipment(ctx context.Context, shipmentID string) (*models.Payment, error) {
	query := selectPayment + `
		WHERE shipment_id = $1
		ORDER BY (status IN ('pending', 'processing')) DESC, created_at DESC
		LIMIT 1
	`
	return r.scanPayment(r.db.QueryRowContext(ctx, query, shipmentID))
}

func (r *PaymentRepository) MarkCompleted(ctx context.Context, id string, confirmedAt time.Time) error {
	query := `
		UPDATE payments
		SET status = $1, confirmed_at = $2
		WHERE id = $3 AND status NOT IN ('completed', 'failed')
	`

	res, err := r.db.ExecContext(ctx, query, models.PaymentStatusCompleted, confirmedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		if _, err := r.GetPayment(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyTerminal
	}

	return nil
}

func (r *PaymentRepository) SetShipmentStatus(ctx context.Context, shipmentID string, status models.ShipmentPaymentStatus, method models.PaymentMethod, details *models.PaymentDetails) error {
	var detailsJSON []byte
	if details != nil {
		var err error
		detailsJSON, err = json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to marshal payment details: %w", err)
		}
	}

	query := `
		INSERT INTO shipment_payments (shipment_id, payment_status, payment_method, payment_details, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (shipment_id) DO UPDATE SET
			payment_status = EXCLUDED.payment_status,
			payment_method = EXCLUDED.payment_method,
			payment_details = COALESCE(EXCLUDED.payment_details, shipment_payments.payment_details),
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, shipmentID, status, method, detailsJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert shipment payment status: %w", err)
	}

	return nil
}

func (r *PaymentRepository) GetShipmentStatus(ctx context.Context, shipmentID string) (*models.ShipmentPayment, error) {
	query := `
		SELECT shipment_id, payment_status, payment_method, payment_details, updated_at
		FROM shipment_payments WHERE shipment_id = $1
	`

	sp := &models.ShipmentPayment{}
	var method sql.NullString
	var detailsJSON []byte

	err := r.db.QueryRowContext(ctx, query, shipmentID).Scan(
		&sp.ShipmentID,
		&sp.PaymentStatus,
		&method,
		&detailsJSON,
		&sp.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shipment payment status: %w", err)
	}

	sp.PaymentMethod = models.PaymentMethod(method.String)
	if len(detailsJSON) > 0 {
		sp.PaymentDetails = &models.PaymentDetails{}
		if err := json.Unmarshal(detailsJSON, sp.PaymentDetails); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payment details: %w", err)
		}
	}

	return sp, nil
}

func (r *PaymentRepository) ListStaleProcessing(ctx context.Context, olderThan time.Time) ([]*models.Payment, error) {
	query := selectPayment + `
		WHERE status = 'processing' AND created_at < $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, olderThan)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := r.scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

const selectPayment = `
	SELECT id, shipment_id, user_id, amount, currency, method, network,
		   wallet_address, card_last4, card_network, status, created_at, confirmed_at
	FROM payments
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PaymentRepository) scanPayment(row rowScanner) (*models.Payment, error) {
	payment := &models.Payment{}
	var network, walletAddress, cardLast4, cardNetwork sql.NullString
	var confirmedAt sql.NullTime

	err := row.Scan(
		&payment.ID,
		&payment.ShipmentID,
		&payment.UserID,
		&payment.Amount,
		&payment.Currency,
		&payment.Method,
		&network,
		&walletAddress,
		&cardLast4,
		&cardNetwork,
		&payment.Status,
		&payment.CreatedAt,
		&confirmedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}

	payment.Network = network.String
	payment.WalletAddress = walletAddress.String
	payment.CardLast4 = cardLast4.String
	payment.CardNetwork = cardNetwork.String
	if confirmedAt.Valid {
		t := confirmedAt.Time
		payment.ConfirmedAt = &t
	}

	return payment, nil
}
