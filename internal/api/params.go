package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PathID reads a chi URL param that must be a uuid. On failure it writes a
// 400 and returns ok=false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing "+name)
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid "+name)
		return "", false
	}
	return id.String(), true
}

// DecodeJSON decodes the request body into dst, writing a 400 on failure.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return false
	}
	return true
}
