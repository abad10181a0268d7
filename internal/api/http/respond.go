package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
)

// envelope is the JSON body of every response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Message: message, Data: data})
}

// writeError maps the domain error taxonomy onto HTTP statuses. Storage
// errors surface as a generic 500; the detail stays in the logs.
func writeError(w http.ResponseWriter, err error) {
	code := domain.CodeOf(err)

	var status int
	switch code {
	case domain.CodeValidation:
		status = http.StatusBadRequest
	case domain.CodeNotFound:
		status = http.StatusNotFound
	case domain.CodeForbidden:
		status = http.StatusForbidden
	case domain.CodeInsufficientStock, domain.CodeInvalidState, domain.CodeConflict:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	message := err.Error()
	if code == domain.CodeStorage {
		logger.Error("request failed", "error", err)
		message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message, Code: string(code)})
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return domain.Validationf("malformed JSON at offset %d", syntaxErr.Offset)
		}
		return domain.Validationf("invalid request body: %v", err)
	}
	return nil
}
