package api

import (
	"encoding/json"
	"net/http"

	"moviebrowser/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeModelError maps model error categories onto HTTP status codes.
func writeModelError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if category, ok := domain.CategoryOf(err); ok {
		switch category {
		case domain.CategoryValidation:
			status = http.StatusBadRequest
		case domain.CategoryAuthorization:
			status = http.StatusForbidden
		case domain.CategoryState:
			status = http.StatusConflict
		case domain.CategoryStorage:
			status = http.StatusInternalServerError
		}
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
