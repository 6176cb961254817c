package service

import (
	"regexp"
	"testing"

	"github.com/Prashanty2005/Cargo-Connect/internal/models"
)

func TestNewTransactionID(t *testing.T) {
	tests := []struct {
		name    string
		method  models.PaymentMethod
		network string
		pattern string
	}{
		{
			name:    "card",
			method:  models.MethodCard,
			pattern: `^TXN-\d{1,6}$`,
		},
		{
			name:    "upi",
			method:  models.MethodUPI,
			pattern: `^TXN-\d{1,6}$`,
		},
		{
			name:    "netbanking",
			method:  models.MethodNetbanking,
			pattern: `^TXN-\d{1,6}$`,
		},
		{
			name:    "bitcoin lightning",
			method:  models.MethodBitcoin,
			network: models.NetworkLightning,
			pattern: `^lntx_[0-9a-z]{13}$`,
		},
		{
			name:    "bitcoin mainnet",
			method:  models.MethodBitcoin,
			network: models.NetworkBitcoinMainnet,
			pattern: `^btctx_[0-9a-z]{13}$`,
		},
		{
			name:    "qrcode lightning",
			method:  models.MethodQRCode,
			network: models.NetworkLightning,
			pattern: `^lntx_[0-9a-z]{13}$`,
		},
		{
			name:    "blockchain",
			method:  models.MethodBlockchain,
			network: models.NetworkEthereum,
			pattern: `^0x[0-9a-f]{64}$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := NewTransactionID(tt.method, tt.network)
			matched, err := regexp.MatchString(tt.pattern, id)
			if err != nil {
				t.Fatalf("bad pattern: %v", err)
			}
			if !matched {
				t.Errorf("NewTransactionID(%s, %s) = %q, want match for %s", tt.method, tt.network, id, tt.pattern)
			}
		})
	}
}

func TestEstimatedConfirmation(t *testing.T) {
	tests := []struct {
		name    string
		method  models.PaymentMethod
		network string
		want    string
	}{
		{
			name:    "lightning",
			method:  models.MethodBitcoin,
			network: models.NetworkLightning,
			want:    "under 1 minute",
		},
		{
			name:    "bitcoin mainnet",
			method:  models.MethodBitcoin,
			network: models.NetworkBitcoinMainnet,
			want:    "about 30 minutes",
		},
		{
			name:    "blockchain",
			method:  models.MethodBlockchain,
			network: models.NetworkPolygon,
			want:    "10-30 minutes",
		},
		{
			name:   "card",
			method: models.MethodCard,
			want:   "a few seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimatedConfirmation(tt.method, tt.network)
			if got != tt.want {
				t.Errorf("EstimatedConfirmation(%s, %s) = %q, want %q", tt.method, tt.network, got, tt.want)
			}
		})
	}
}
