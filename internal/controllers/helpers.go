package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/campuskey/housing-service/internal/middleware"
	"github.com/campuskey/housing-service/internal/utils"
)

// userIDFromContext pulls the authenticated subject set by the auth
// middleware. A missing or malformed subject is a 401 already written
// to the response.
func userIDFromContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ctxUserID := r.Context().Value(middleware.ContextKeyUserID)
	if ctxUserID == nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil,
		)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(ctxUserID.(string))
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"Invalid userID in context", nil, err,
		)
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses a UUID path variable already extracted by mux.
func pathID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid id in path", nil, err,
		)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps the domain sentinels to HTTP statuses. Any
// error not in the table is a 500.
func respondServiceError(w http.ResponseWriter, err error, publicMessage string) {
	switch {
	case errors.Is(err, utils.ErrNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, publicMessage, nil, err)
	case errors.Is(err, utils.ErrGranularityMismatch):
		utils.RespondErrorWithCode(w, http.StatusUnprocessableEntity, utils.ErrCodeGranularityMismatch, publicMessage, nil, err)
	case errors.Is(err, utils.ErrResourceUnavailable):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeResourceUnavailable, publicMessage, nil, err)
	case errors.Is(err, utils.ErrLeaseFull):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeLeaseFull, publicMessage, nil, err)
	case errors.Is(err, utils.ErrHolderHasActiveLease):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeHolderHasActiveLease, publicMessage, nil, err)
	case errors.Is(err, utils.ErrDuplicateApplication):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeDuplicateApplication, publicMessage, nil, err)
	case errors.Is(err, utils.ErrDuplicateOccupant):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeDuplicateOccupant, publicMessage, nil, err)
	case errors.Is(err, utils.ErrNotLeaseHolder):
		utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeNotLeaseHolder, publicMessage, nil, err)
	case errors.Is(err, utils.ErrNotInvitee):
		utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeNotInvitee, publicMessage, nil, err)
	case errors.Is(err, utils.ErrInvalidRole):
		utils.RespondErrorWithCode(w, http.StatusUnprocessableEntity, utils.ErrCodeInvalidRole, publicMessage, nil, err)
	case errors.Is(err, utils.ErrInvalidTransition):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeInvalidTransition, publicMessage, nil, err)
	case errors.Is(err, utils.ErrCannotRemoveLastLeaseHolder):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeCannotRemoveLastLeaseHolder, publicMessage, nil, err)
	case errors.Is(err, utils.ErrInvalidPayload):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, publicMessage, nil, err)
	default:
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, publicMessage, nil, err)
	}
}
