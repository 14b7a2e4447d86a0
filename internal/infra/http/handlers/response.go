package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/calldesk/internal/usecase"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

var statusByCode = map[string]int{
	usecase.CodeNoValidLeads:          http.StatusUnprocessableEntity,
	usecase.CodeDuplicateEmail:        http.StatusConflict,
	usecase.CodeInvalidCredentials:    http.StatusUnauthorized,
	usecase.CodeMissingContactChannel: http.StatusUnprocessableEntity,
	usecase.CodeInvalidSchedule:       http.StatusUnprocessableEntity,
	usecase.CodeLeadNotFound:          http.StatusNotFound,
	usecase.CodeNoSession:             http.StatusUnauthorized,
	usecase.CodeValidation:            http.StatusBadRequest,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Code: code, Message: message})
}

// writeError maps use case errors onto HTTP statuses. Technical details stay
// in the log.
func writeError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		writeFailure(w, status, de.Code, de.Message)
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		log.Printf("❌ [HTTP] %s: %v", te.Code, te.Err)
		writeFailure(w, http.StatusInternalServerError, te.Code, te.Message)
		return
	}

	log.Printf("❌ [HTTP] unexpected error: %v", err)
	writeFailure(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeFailure(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return false
	}
	return true
}
