package httpapi

import (
	"errors"
	"net/http"

	"github.com/Humans-Not-Required/agent-docs/internal/apperr"
)

// writeStoreError translates a Store/LockManager error into the taxonomy's
// HTTP status and body. Every fmt.Errorf wrap in this codebase uses %w, so
// errors.As/errors.Is below still see through any layers of wrapping
// between here and where the error originated.
func writeStoreError(w http.ResponseWriter, err error) {
	var lockConflict *apperr.LockConflict
	if errors.As(err, &lockConflict) {
		expiresAt := lockConflict.ExpiresAt
		writeJSON(w, http.StatusConflict, errorBody{Error: errorPayload{
			Code:      "conflict",
			Message:   lockConflict.Error(),
			Holder:    lockConflict.Holder,
			ExpiresAt: &expiresAt,
		}})
		return
	}
	var noLease *apperr.NoLease
	if errors.As(err, &noLease) {
		writeError(w, http.StatusConflict, "conflict", noLease.Error())
		return
	}

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", "conflict")
	case errors.Is(err, apperr.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, apperr.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "rate_limited", "rate limited")
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
