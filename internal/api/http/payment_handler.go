package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"costume-rental-backend/internal/service"
)

// PaymentHandler exposes the payment ledger operations.
type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var input service.RecordPaymentInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	paymentID, err := h.payments.RecordPayment(r.Context(), actorFrom(r), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "payment recorded", map[string]string{"payment_id": paymentID})
}

type confirmPaymentRequest struct {
	GatewayStatus string `json:"gateway_status"`
	Success       bool   `json:"success"`
}

// Confirm is the gateway webhook; it carries its own shared-secret style
// verification upstream and is mounted outside the authenticated subrouter.
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.payments.ConfirmPayment(r.Context(), mux.Vars(r)["id"], req.GatewayStatus, req.Success); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "payment updated", nil)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	payment, err := h.payments.GetPayment(r.Context(), actorFrom(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", payment)
}

func (h *PaymentHandler) ListByRental(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.ListRentalPayments(r.Context(), actorFrom(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", payments)
}

type refundDepositRequest struct {
	Amount int64  `json:"amount"`
	Method string `json:"method"`
	Note   string `json:"note"`
}

func (h *PaymentHandler) RefundDeposit(w http.ResponseWriter, r *http.Request) {
	var req refundDepositRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	paymentID, err := h.payments.RefundDeposit(r.Context(), actorFrom(r), mux.Vars(r)["id"], req.Amount, req.Method, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "deposit refunded", map[string]string{"payment_id": paymentID})
}
