// Package upi builds UPI deep-link payment requests consumed by the client's
// QR renderer or handed to a payment app. It neither renders nor transmits
// anything.
package upi

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	// ErrInvalidAmount is returned when the cleaned amount does not parse or
	// is not strictly positive. A payment request must never be produced for
	// a zero or garbage amount.
	ErrInvalidAmount = errors.New("upi: amount must be a positive number")
	// ErrInvalidPayee is returned when the payee address fails the basic
	// local@handle shape check.
	ErrInvalidPayee = errors.New("upi: invalid payee address")
)

var amountCleaner = strings.NewReplacer("₹", "", ",", "")

// BuildPaymentURI constructs a upi://pay request for the given payee and
// display amount. The amount may carry the rupee symbol and Indian grouping
// separators exactly as the ledger formats it; both are stripped before
// parsing. The payee name is percent-encoded the way encodeURIComponent
// does, so the URI round-trips through the same QR payloads the mobile
// client produced.
func BuildPaymentURI(payeeID, payeeName, amount string) (string, error) {
	if !validPayeeAddress(payeeID) {
		return "", ErrInvalidPayee
	}
	cleaned := strings.TrimSpace(amountCleaner.Replace(amount))
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value <= 0 {
		return "", ErrInvalidAmount
	}
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%.2f&cu=INR",
		payeeID, encodeComponent(payeeName), value), nil
}

// validPayeeAddress checks the basic VPA shape only: a non-empty local part,
// one @, and a non-empty handle. Anything deeper is the payment network's
// concern.
func validPayeeAddress(payeeID string) bool {
	local, handle, ok := strings.Cut(payeeID, "@")
	if !ok {
		return false
	}
	return strings.TrimSpace(local) != "" && strings.TrimSpace(handle) != ""
}

// encodeComponent matches JavaScript's encodeURIComponent: query escaping
// with spaces as %20 rather than +.
func encodeComponent(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
