package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Prashanty2005/Cargo-Connect/internal/models"
	"github.com/Prashanty2005/Cargo-Connect/internal/repository"
)

func TestNotifyWritesDurableLog(t *testing.T) {
	mem := repository.NewMemory()
	notifier := NewNotifier(mem, nil, zap.NewNop())
	ctx := context.Background()

	n := &models.Notification{
		ID:        "n-1",
		UserID:    "user-7",
		Title:     "Payment Confirmed",
		Message:   "Your netbanking payment of 1500 INR for shipment ship-7 has been confirmed.",
		Link:      "/shipment/ship-7",
		CreatedAt: time.Now(),
	}

	require.NoError(t, notifier.Notify(ctx, n))

	listed, err := notifier.List(ctx, "user-7", 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "n-1", listed[0].ID)
	assert.False(t, listed[0].Read)
}

func TestListReturnsMostRecentFirst(t *testing.T) {
	mem := repository.NewMemory()
	notifier := NewNotifier(mem, nil, zap.NewNop())
	ctx := context.Background()

	for _, id := range []string{"n-1", "n-2", "n-3"} {
		require.NoError(t, notifier.Notify(ctx, &models.Notification{
			ID:        id,
			UserID:    "user-8",
			Title:     "Payment Confirmed",
			Message:   "confirmed",
			CreatedAt: time.Now(),
		}))
	}

	listed, err := notifier.List(ctx, "user-8", 2)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "n-3", listed[0].ID)
	assert.Equal(t, "n-2", listed[1].ID)
}

func TestConfirmationNotificationContent(t *testing.T) {
	tests := []struct {
		name      string
		method    models.PaymentMethod
		wantTitle string
		wantIn    string
	}{
		{
			name:      "bitcoin",
			method:    models.MethodBitcoin,
			wantTitle: "Bitcoin Payment Confirmed",
			wantIn:    "Your Bitcoin payment of",
		},
		{
			name:      "blockchain",
			method:    models.MethodBlockchain,
			wantTitle: "Blockchain Payment Confirmed",
			wantIn:    "Your blockchain payment of",
		},
		{
			name:      "card",
			method:    models.MethodCard,
			wantTitle: "Payment Confirmed",
			wantIn:    "Your card payment of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := &models.Payment{
				ID:         "TXN-5",
				ShipmentID: "ship-9",
				UserID:     "user-9",
				Amount:     decimal.NewFromInt(42),
				Currency:   "USD",
				Method:     tt.method,
			}

			n := ConfirmationNotification(payment)
			assert.Equal(t, tt.wantTitle, n.Title)
			assert.Contains(t, n.Message, tt.wantIn)
			assert.Contains(t, n.Message, "42 USD")
			assert.Contains(t, n.Message, "ship-9")
			assert.Equal(t, "/shipment/ship-9", n.Link)
			assert.Equal(t, "user-9", n.UserID)
		})
	}
}
