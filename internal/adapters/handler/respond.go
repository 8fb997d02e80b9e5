package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/whiteboard/enrollment-service/internal/core/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// writeError maps a domain error kind to an HTTP status. Denials stay
// detail-free; upstream causes are logged but never echoed to the caller.
func writeError(w http.ResponseWriter, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		slog.Error("unclassified error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Kind {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindNotAuthorized:
		status = http.StatusForbidden
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindUpstream:
		slog.Error("upstream failure", "code", domainErr.Code, "cause", domainErr.Cause)
		status = http.StatusBadGateway
	}

	writeJSON(w, status, errorResponse{Error: domainErr.Message, Code: domainErr.Code})
}
