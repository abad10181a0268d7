package domain

import "time"

type PaymentType string

const (
	PaymentTypeRentalFee PaymentType = "rental_fee"
	PaymentTypeRefund    PaymentType = "refund"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment is one append-only row of the payment ledger. Amount is signed:
// negative for refunds. Rows are never deleted; only the pending status may
// move to success or failed.
type Payment struct {
	ID            string        `json:"id"`
	RentalID      string        `json:"rental_id"`
	UserID        int64         `json:"user_id"`
	Amount        int64         `json:"amount"`
	PaymentMethod string        `json:"payment_method"`
	PaymentType   PaymentType   `json:"payment_type"`
	Status        PaymentStatus `json:"status"`
	GatewayStatus string        `json:"gateway_status,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// SupportedPaymentMethods mirrors the checkout options; "cash" and "banking"
// settle offline, the rest via gateway redirect handled outside the engine.
var SupportedPaymentMethods = map[string]bool{
	"cash":    true,
	"banking": true,
	"momo":    true,
	"vnpay":   true,
	"zalopay": true,
}
