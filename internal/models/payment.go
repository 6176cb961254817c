package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCard       PaymentMethod = "card"
	MethodUPI        PaymentMethod = "upi"
	MethodNetbanking PaymentMethod = "netbanking"
	MethodBlockchain PaymentMethod = "blockchain"
	MethodBitcoin    PaymentMethod = "bitcoin"
	MethodQRCode     PaymentMethod = "qrcode"
)

// Valid reports whether m is one of the supported payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodUPI, MethodNetbanking, MethodBlockchain, MethodBitcoin, MethodQRCode:
		return true
	}
	return false
}

// OnChain reports whether the method settles against a blockchain network.
func (m PaymentMethod) OnChain() bool {
	return m == MethodBlockchain || m == MethodBitcoin
}

// Blockchain network sub-selectors. NetworkLightning payments are
// invoice-based and do not require a pre-supplied wallet address.
const (
	NetworkLightning      = "Lightning Network"
	NetworkBitcoinMainnet = "Bitcoin Mainnet"
	NetworkEthereum       = "Ethereum"
	NetworkPolygon        = "Polygon"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// Terminal reports whether no further transitions are permitted.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

type Payment struct {
	ID            string          `json:"id" db:"id"`
	ShipmentID    string          `json:"shipment_id" db:"shipment_id"`
	UserID        string          `json:"user_id" db:"user_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Currency      string          `json:"currency" db:"currency"`
	Method        PaymentMethod   `json:"method" db:"method"`
	Network       string          `json:"network,omitempty" db:"network"`
	WalletAddress string          `json:"wallet_address,omitempty" db:"wallet_address"`
	CardLast4     string          `json:"card_last4,omitempty" db:"card_last4"`
	CardNetwork   string          `json:"card_network,omitempty" db:"card_network"`
	Status        PaymentStatus   `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	ConfirmedAt   *time.Time      `json:"confirmed_at,omitempty" db:"confirmed_at"`
}

type PaymentRequest struct {
	ShipmentID     string          `json:"shipment_id" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Currency       string          `json:"currency" binding:"required,len=3"`
	Method         PaymentMethod   `json:"method" binding:"required"`
	Network        string          `json:"network"`
	WalletAddress  string          `json:"wallet_address"`
	CardNumber     string          `json:"card_number"`
	ExpiryDate     string          `json:"expiry_date"`
	CVV            string          `json:"cvv"`
	UPIID          string          `json:"upi_id"`
	IdempotencyKey string          `json:"idempotency_key"`
}

type PaymentResponse struct {
	Payment               *Payment `json:"payment"`
	Message               string   `json:"message,omitempty"`
	EstimatedConfirmation string   `json:"estimated_confirmation,omitempty"`
}

// Database schema
const PaymentSchema = `
CREATE TABLE IF NOT EXISTS payments (
    id VARCHAR(80) PRIMARY KEY,
    shipment_id VARCHAR(64) NOT NULL,
    user_id VARCHAR(64) NOT NULL,
    amount DECIMAL(19, 4) NOT NULL,
    currency VARCHAR(3) NOT NULL,
    method VARCHAR(20) NOT NULL,
    network VARCHAR(40),
    wallet_address VARCHAR(128),
    card_last4 VARCHAR(4),
    card_network VARCHAR(20),
    status VARCHAR(20) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    confirmed_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_payments_shipment ON payments (shipment_id);
CREATE INDEX IF NOT EXISTS idx_payments_status ON payments (status);

CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_active_shipment
    ON payments (shipment_id)
    WHERE status IN ('pending', 'processing');
`
