package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"costume-rental-backend/internal/security"
	"costume-rental-backend/internal/service"
)

// Services bundles everything the router exposes.
type Services struct {
	Rentals   service.RentalService
	Payments  service.PaymentService
	Costumes  service.CostumeService
	Penalties service.PenaltyService
}

// NewRouter builds the API routes. The payment confirmation webhook and the
// public catalog reads sit outside the authenticated subrouter.
func NewRouter(svcs Services, tm security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(Logging)

	rentals := NewRentalHandler(svcs.Rentals)
	payments := NewPaymentHandler(svcs.Payments)
	costumes := NewCostumeHandler(svcs.Costumes)
	penalties := NewPenaltyHandler(svcs.Penalties)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/costumes", costumes.List).Methods(http.MethodGet)
	api.HandleFunc("/costumes/top-rented", costumes.TopRented).Methods(http.MethodGet)
	api.HandleFunc("/costumes/{id:[0-9]+}", costumes.Get).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id}/confirm", payments.Confirm).Methods(http.MethodPost)
	api.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, "ok", nil)
	}).Methods(http.MethodGet)

	// Authenticated routes
	auth := api.NewRoute().Subrouter()
	auth.Use(Authenticate(tm))

	auth.HandleFunc("/rentals", rentals.Create).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/quote", rentals.Quote).Methods(http.MethodPost)
	auth.HandleFunc("/rentals", rentals.List).Methods(http.MethodGet)
	auth.HandleFunc("/rentals/deposits", rentals.DepositHistory).Methods(http.MethodGet)
	auth.HandleFunc("/rentals/{id}", rentals.Get).Methods(http.MethodGet)
	auth.HandleFunc("/rentals/{id}/cancel", rentals.Cancel).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/{id}/confirm-delivery", rentals.ConfirmDelivery).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/{id}/confirm-receipt", rentals.ConfirmReceipt).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/{id}/extend", rentals.Extend).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/{id}/return-request", rentals.RequestReturn).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/{id}/process-return", rentals.ProcessReturn).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/{id}/penalty", rentals.ApplyPenalty).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/{id}/payments", payments.ListByRental).Methods(http.MethodGet)
	auth.HandleFunc("/rentals/{id}/refund-deposit", payments.RefundDeposit).Methods(http.MethodPost)

	auth.HandleFunc("/users/{id:[0-9]+}/rentals", rentals.ListByUser).Methods(http.MethodGet)

	auth.HandleFunc("/payments", payments.Record).Methods(http.MethodPost)
	auth.HandleFunc("/payments/{id}", payments.Get).Methods(http.MethodGet)

	auth.HandleFunc("/costumes", costumes.Create).Methods(http.MethodPost)
	auth.HandleFunc("/costumes/{id:[0-9]+}", costumes.Update).Methods(http.MethodPut)
	auth.HandleFunc("/costumes/{id:[0-9]+}", costumes.Delete).Methods(http.MethodDelete)

	auth.HandleFunc("/penalty-rules", penalties.List).Methods(http.MethodGet)
	auth.HandleFunc("/penalty-rules", penalties.Create).Methods(http.MethodPost)
	auth.HandleFunc("/penalty-rules/{id:[0-9]+}", penalties.Get).Methods(http.MethodGet)
	auth.HandleFunc("/penalty-rules/{id:[0-9]+}", penalties.Update).Methods(http.MethodPut)
	auth.HandleFunc("/penalty-rules/{id:[0-9]+}", penalties.Deactivate).Methods(http.MethodDelete)

	return r
}
