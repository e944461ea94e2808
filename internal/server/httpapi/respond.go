package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dishubaceh/damprah/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
	Path  string `json:"orphaned_path,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps domain errors to HTTP status codes. Unknown errors come
// back as 500 with a generic message so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var orphan *common.OrphanedObjectError
	if errors.As(err, &orphan) {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "file stored but not registered, contact an administrator",
			Path:  orphan.Path,
		})
		return
	}

	switch {
	case errors.Is(err, common.ErrValidation):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		writeErrorMessage(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrForbidden):
		writeErrorMessage(w, http.StatusForbidden, "admin role required")
	case errors.Is(err, common.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrGateway):
		writeErrorMessage(w, http.StatusBadGateway, "object storage unavailable")
	default:
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}
