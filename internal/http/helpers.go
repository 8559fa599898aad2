package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"patrimonio/internal/core"
	"patrimonio/internal/log"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error      string           `json:"error"`
	Violations []core.Violation `json:"violations,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps service-layer failures onto HTTP statuses:
// validation violations become 422, missing records 404, the rest 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var violations core.Violations
	switch {
	case errors.As(err, &violations):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:      "validation failed",
			Violations: violations,
		})
	case errors.Is(err, sql.ErrNoRows):
		respondError(w, http.StatusNotFound, "record not found")
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			log.FieldError, err, log.FieldPath, r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// ownerParam extracts the required owner query parameter.
func ownerParam(r *http.Request) (string, bool) {
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	return owner, owner != ""
}

// idPathValue parses the {id} path segment.
func idPathValue(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}
