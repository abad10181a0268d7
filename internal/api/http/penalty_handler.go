package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/service"
)

// PenaltyHandler exposes penalty rule administration.
type PenaltyHandler struct {
	penalties service.PenaltyService
}

func NewPenaltyHandler(penalties service.PenaltyService) *PenaltyHandler {
	return &PenaltyHandler{penalties: penalties}
}

func (h *PenaltyHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	rules, err := h.penalties.ListRules(r.Context(), includeInactive)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", rules)
}

func (h *PenaltyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ruleID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rule, err := h.penalties.GetRule(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", rule)
}

func (h *PenaltyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rule domain.PenaltyRule
	if err := decodeJSON(r, &rule); err != nil {
		writeError(w, err)
		return
	}

	if err := h.penalties.CreateRule(r.Context(), actorFrom(r), &rule); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "penalty rule created", rule)
}

func (h *PenaltyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ruleID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var upd domain.PenaltyRuleUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	if err := h.penalties.UpdateRule(r.Context(), actorFrom(r), id, upd); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "penalty rule updated", nil)
}

func (h *PenaltyHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := ruleID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.penalties.DeactivateRule(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "penalty rule deactivated", nil)
}

func ruleID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, domain.Validationf("invalid rule id")
	}
	return id, nil
}
