package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/service"
)

// CostumeHandler exposes the catalog operations.
type CostumeHandler struct {
	costumes service.CostumeService
}

func NewCostumeHandler(costumes service.CostumeService) *CostumeHandler {
	return &CostumeHandler{costumes: costumes}
}

func (h *CostumeHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.CostumeFilter{
		Status:        domain.CostumeStatus(q.Get("status")),
		AvailableOnly: q.Get("available") == "true",
		Search:        q.Get("search"),
		SortBy:        domain.CostumeSort(q.Get("sort")),
	}
	if v, err := strconv.ParseInt(q.Get("min_price"), 10, 64); err == nil {
		filter.MinPrice = v
	}
	if v, err := strconv.ParseInt(q.Get("max_price"), 10, 64); err == nil {
		filter.MaxPrice = v
	}
	page, pageSize := pagination(r)

	costumes, total, err := h.costumes.ListCostumes(r.Context(), filter, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", listPage{Items: costumes, Total: total, Page: page, PageSize: pageSize})
}

func (h *CostumeHandler) TopRented(w http.ResponseWriter, r *http.Request) {
	limit := int32(10)
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 50 {
		limit = int32(v)
	}

	costumes, err := h.costumes.TopRented(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", costumes)
}

func (h *CostumeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := costumeID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	costume, err := h.costumes.GetCostume(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "", costume)
}

func (h *CostumeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var costume domain.Costume
	if err := decodeJSON(r, &costume); err != nil {
		writeError(w, err)
		return
	}

	if err := h.costumes.CreateCostume(r.Context(), actorFrom(r), &costume); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "costume created", costume)
}

func (h *CostumeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := costumeID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var upd domain.CostumeUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	if err := h.costumes.UpdateCostume(r.Context(), actorFrom(r), id, upd); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "costume updated", nil)
}

func (h *CostumeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := costumeID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.costumes.DeleteCostume(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "costume deleted", nil)
}

func costumeID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, domain.Validationf("invalid costume id")
	}
	return id, nil
}
