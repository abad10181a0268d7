package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/service"
)

// RentalHandler exposes the rental lifecycle operations.
type RentalHandler struct {
	rentals service.RentalService
}

func NewRentalHandler(rentals service.RentalService) *RentalHandler {
	return &RentalHandler{rentals: rentals}
}

type createRentalRequest struct {
	Items         []service.RentalItemInput `json:"items"`
	RentalDays    int32                     `json:"rental_days"`
	StartDate     string                    `json:"start_date"`
	PaymentMethod string                    `json:"payment_method"`
}

func (req createRentalRequest) toInput() (service.CreateRentalInput, error) {
	input := service.CreateRentalInput{
		Items:         req.Items,
		RentalDays:    req.RentalDays,
		PaymentMethod: req.PaymentMethod,
	}
	if req.StartDate == "" {
		return input, domain.Validationf("start_date is required")
	}
	start, err := time.Parse(domain.DateLayout, req.StartDate)
	if err != nil {
		return input, domain.Validationf("start_date must be %s formatted", domain.DateLayout)
	}
	input.StartDate = start
	return input, nil
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.rentals.CreateRental(r.Context(), actorFrom(r), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "rental created", result)
}

func (h *RentalHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.rentals.QuoteRental(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "rental quoted", result)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.rentals.GetRental(r.Context(), actorFrom(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", detail)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.rentals.CancelRental(r.Context(), actorFrom(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "rental cancelled", nil)
}

func (h *RentalHandler) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	if err := h.rentals.ConfirmDelivery(r.Context(), actorFrom(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "delivery confirmed", nil)
}

func (h *RentalHandler) ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	if err := h.rentals.ConfirmReceipt(r.Context(), actorFrom(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "receipt confirmed", nil)
}

type extendRentalRequest struct {
	AdditionalDays int32 `json:"additional_days"`
}

func (h *RentalHandler) Extend(w http.ResponseWriter, r *http.Request) {
	var req extendRentalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.rentals.ExtendRental(r.Context(), actorFrom(r), mux.Vars(r)["id"], req.AdditionalDays)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "rental extended", result)
}

func (h *RentalHandler) RequestReturn(w http.ResponseWriter, r *http.Request) {
	if err := h.rentals.RequestReturn(r.Context(), actorFrom(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "return requested", nil)
}

type processReturnRequest struct {
	Conditions []service.ReturnConditionInput `json:"conditions"`
	ReturnDate string                         `json:"return_date"`
}

func (h *RentalHandler) ProcessReturn(w http.ResponseWriter, r *http.Request) {
	var req processReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var returnDate time.Time
	if req.ReturnDate != "" {
		parsed, err := time.Parse(domain.DateLayout, req.ReturnDate)
		if err != nil {
			writeError(w, domain.Validationf("return_date must be %s formatted", domain.DateLayout))
			return
		}
		returnDate = parsed
	}

	result, err := h.rentals.ProcessReturn(r.Context(), actorFrom(r), mux.Vars(r)["id"], req.Conditions, returnDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "return processed", result)
}

type manualPenaltyRequest struct {
	PenaltyType domain.ManualPenaltyType `json:"penalty_type"`
	Amount      int64                    `json:"amount"`
	Note        string                   `json:"note"`
}

func (h *RentalHandler) ApplyPenalty(w http.ResponseWriter, r *http.Request) {
	var req manualPenaltyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := h.rentals.ApplyManualPenalty(r.Context(), actorFrom(r), mux.Vars(r)["id"], req.PenaltyType, req.Amount, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "penalty applied", nil)
}

func (h *RentalHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, domain.Validationf("invalid user id"))
		return
	}
	page, pageSize := pagination(r)

	rentals, total, err := h.rentals.ListUserRentals(r.Context(), actorFrom(r), userID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", listPage{Items: rentals, Total: total, Page: page, PageSize: pageSize})
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.RentalFilter{
		Status:        domain.RentalStatus(r.URL.Query().Get("status")),
		PaymentStatus: domain.PaymentState(r.URL.Query().Get("payment_status")),
		Search:        r.URL.Query().Get("search"),
	}
	page, pageSize := pagination(r)

	rentals, total, err := h.rentals.ListRentals(r.Context(), actorFrom(r), filter, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", listPage{Items: rentals, Total: total, Page: page, PageSize: pageSize})
}

func (h *RentalHandler) DepositHistory(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	records, total, err := h.rentals.DepositHistory(r.Context(), actorFrom(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", listPage{Items: records, Total: total, Page: page, PageSize: pageSize})
}

// listPage is the wire shape of paginated list responses.
type listPage struct {
	Items    any   `json:"items"`
	Total    int32 `json:"total"`
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
