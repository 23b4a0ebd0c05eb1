package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"eventmarket/pkg/market"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Error: APIError{Code: code, Message: message},
	})
}

// WriteData writes the success envelope {"data": v}. Extra top-level fields
// (pagination) go in extra.
func WriteData(w http.ResponseWriter, status int, v any, extra map[string]any) {
	body := map[string]any{"data": v}
	for k, x := range extra {
		body[k] = x
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteValidation writes a 400 carrying the ValidationError's code. It reports
// false, writing nothing, when err is some other error.
func WriteValidation(w http.ResponseWriter, err error) bool {
	var ve market.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	code := ve.Code
	if code == "" {
		code = "VALIDATION_FAILED"
	}
	WriteError(w, http.StatusBadRequest, code, ve.Message)
	return true
}
