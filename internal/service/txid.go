package service

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Prashanty2005/Cargo-Connect/internal/models"
)

const (
	base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"
	hexChars    = "0123456789abcdef"
)

// NewTransactionID generates a transaction identifier whose format
// communicates the method and network. This is a display and audit
// convenience only; no cryptographic commitment is made.
//
//	card/upi/netbanking     TXN-<digits>
//	bitcoin/qrcode          lntx_<token> on Lightning, btctx_<token> on-chain
//	blockchain              0x<64 hex chars>
func NewTransactionID(method models.PaymentMethod, network string) string {
	switch method {
	case models.MethodBitcoin, models.MethodQRCode:
		if network == models.NetworkLightning {
			return "lntx_" + randomString(base36Chars, 13)
		}
		return "btctx_" + randomString(base36Chars, 13)
	case models.MethodBlockchain:
		return "0x" + randomString(hexChars, 64)
	default:
		return fmt.Sprintf("TXN-%d", randomInt(1000000))
	}
}

// EstimatedConfirmation returns the human-readable settlement estimate shown
// alongside the transaction identifier.
func EstimatedConfirmation(method models.PaymentMethod, network string) string {
	switch method {
	case models.MethodBitcoin, models.MethodQRCode:
		if network == models.NetworkLightning {
			return "under 1 minute"
		}
		return "about 30 minutes"
	case models.MethodBlockchain:
		return "10-30 minutes"
	default:
		return "a few seconds"
	}
}

func randomString(charset string, n int) string {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err)
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

func randomInt(max int) int {
	var b [4]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		panic(err)
	}
	return int(binary.BigEndian.Uint32(b[:]) % uint32(max))
}
