package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 64 << 10

// errorResponse is the body of every failed API call
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// respondWithJSON writes v with the given status. v is encoded before the header is
// written so an encoding failure still yields a 500.
func respondWithJSON(w http.ResponseWriter, logger *zap.Logger, statusCode int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Server Error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
	}
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{Success: false, Message: message})
}

// decodeJSON decodes at most maxBodyBytes of the request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
