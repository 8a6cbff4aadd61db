package helpers

import (
	"encoding/json"
	"net/http"
)

// Public error messages. None of them says why a credential or address was rejected.
const (
	MsgInvalidEmail = "Invalid email."
	MsgUnauthorized = "Unauthorized"
	MsgServerError  = "Server error."
)

// OKResponse is the body of a successful write.
// swagger:model OKResponse
type OKResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the body of every error response.
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode, and encodes v.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteOK writes 200 {"ok":true}.
func WriteOK(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, OKResponse{OK: true})
}

// WriteJSONError writes statusCode with {"error": message}.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}
