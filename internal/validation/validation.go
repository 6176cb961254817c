package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Prashanty2005/Cargo-Connect/internal/models"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
	upiPattern        = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9]+$`)
)

// ValidationError carries the full batch of field-level failures for a
// payment request. It is returned synchronously and never persisted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateRequest checks method-specific required fields before a payment
// attempt is initiated. It has no side effects; all failures are collected
// and returned as a single batch.
func ValidateRequest(req *models.PaymentRequest) error {
	errs := make(map[string]string)

	if req.ShipmentID == "" {
		errs["shipment_id"] = "Shipment ID is required"
	}

	if !req.Method.Valid() {
		errs["method"] = fmt.Sprintf("Unsupported payment method: %q", string(req.Method))
	}

	if !req.Amount.IsPositive() {
		errs["amount"] = "Amount must be greater than zero"
	}

	switch req.Method {
	case models.MethodCard:
		validateCard(req, errs)
	case models.MethodUPI:
		validateUPI(req, errs)
	case models.MethodBlockchain, models.MethodBitcoin:
		// Lightning payments are invoice-based; no wallet address up front.
		if req.Network != models.NetworkLightning && req.WalletAddress == "" {
			errs["wallet_address"] = "Wallet address is required"
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func validateCard(req *models.PaymentRequest, errs map[string]string) {
	switch {
	case req.CardNumber == "":
		errs["card_number"] = "Card number is required"
	case !cardNumberPattern.MatchString(req.CardNumber):
		errs["card_number"] = "Card number must be 16 digits"
	case !ValidateLuhnChecksum(req.CardNumber):
		errs["card_number"] = "Invalid card number"
	}

	switch {
	case req.ExpiryDate == "":
		errs["expiry_date"] = "Expiry date is required"
	case !expiryPattern.MatchString(req.ExpiryDate):
		errs["expiry_date"] = "Expiry date must be in MM/YY format"
	}

	switch {
	case req.CVV == "":
		errs["cvv"] = "CVV is required"
	case !cvvPattern.MatchString(req.CVV):
		errs["cvv"] = "CVV must be 3 or 4 digits"
	}
}

func validateUPI(req *models.PaymentRequest, errs map[string]string) {
	switch {
	case req.UPIID == "":
		errs["upi_id"] = "UPI ID is required"
	case !upiPattern.MatchString(req.UPIID):
		errs["upi_id"] = "Invalid UPI ID format"
	}
}

// ValidateLuhnChecksum validates a card number using the Luhn algorithm.
func ValidateLuhnChecksum(cardNumber string) bool {
	if cardNumber == "" {
		return false
	}

	var sum int
	parity := len(cardNumber) % 2

	for i, digit := range cardNumber {
		d := int(digit - '0')
		if i%2 == parity {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}

	return sum%10 == 0
}

// DetectCardNetwork detects the card network based on IIN.
func DetectCardNetwork(cardNumber string) string {
	if len(cardNumber) < 2 {
		return ""
	}

	prefix := cardNumber[:2]

	switch {
	case prefix == "34" || prefix == "37":
		return "amex"
	case prefix >= "40" && prefix <= "49":
		return "visa"
	case prefix >= "51" && prefix <= "55":
		return "mastercard"
	case prefix >= "22" && prefix <= "27":
		return "mastercard"
	case prefix >= "60" && prefix <= "65":
		return "discover"
	default:
		return ""
	}
}
