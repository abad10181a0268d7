// Package utils holds small helpers shared across services.
package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewRentalCode builds a human-readable rental id: RENT + yymmdd + 6 random
// hex chars, e.g. RENT240115a3f9c2.
func NewRentalCode(now time.Time) string {
	return fmt.Sprintf("RENT%s%s", now.Format("060102"), randomHex(6))
}

// NewPaymentCode builds a payment id: PAY + unix millis + 8 random hex chars.
func NewPaymentCode(now time.Time) string {
	return fmt.Sprintf("PAY%d%s", now.UnixMilli(), randomHex(8))
}

// NewRefundCode builds a refund payment id: REF + unix millis + 8 random hex
// chars.
func NewRefundCode(now time.Time) string {
	return fmt.Sprintf("REF%d%s", now.UnixMilli(), randomHex(8))
}

func randomHex(n int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return hex[:n]
}
