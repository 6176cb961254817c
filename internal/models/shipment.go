package models

import "time"

// ShipmentPaymentStatus is the denormalized payment status projected onto the
// shipment. It is eventually consistent with the Payment and may lag by the
// confirmation delay, but is never "paid" while the Payment is still
// processing.
type ShipmentPaymentStatus string

const (
	ShipmentPaymentUnpaid     ShipmentPaymentStatus = "unpaid"
	ShipmentPaymentProcessing ShipmentPaymentStatus = "processing"
	ShipmentPaymentPaid       ShipmentPaymentStatus = "paid"
)

// PaymentDetails mirrors the payment_details JSON stored on the shipment.
type PaymentDetails struct {
	TransactionHash       string `json:"transaction_hash"`
	BlockchainNetwork     string `json:"blockchain_network,omitempty"`
	EstimatedConfirmation string `json:"estimated_confirmation"`
}

type ShipmentPayment struct {
	ShipmentID     string                `json:"shipment_id" db:"shipment_id"`
	PaymentStatus  ShipmentPaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentMethod  PaymentMethod         `json:"payment_method" db:"payment_method"`
	PaymentDetails *PaymentDetails       `json:"payment_details,omitempty" db:"payment_details"`
	UpdatedAt      time.Time             `json:"updated_at" db:"updated_at"`
}

const ShipmentPaymentSchema = `
CREATE TABLE IF NOT EXISTS shipment_payments (
    shipment_id VARCHAR(64) PRIMARY KEY,
    payment_status VARCHAR(20) NOT NULL DEFAULT 'unpaid',
    payment_method VARCHAR(20),
    payment_details JSONB,
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`
