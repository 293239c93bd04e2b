package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	fridgedomain "fridge-app-go/internal/domain/fridge"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps membership errors onto the error envelope.
// Business errors are logged at warn, everything else at error.
func (h *Handlers) writeServiceError(w http.ResponseWriter, op string, err error, args ...any) {
	status, code := 0, ""
	switch {
	case errors.Is(err, fridgedomain.ErrNoCurrentUser):
		status, code = http.StatusUnauthorized, "no_current_user"
	case errors.Is(err, fridgedomain.ErrInvalidInviteCode):
		status, code = http.StatusNotFound, "invalid_invite_code"
	case errors.Is(err, fridgedomain.ErrAlreadyMember):
		status, code = http.StatusConflict, "already_member"
	case errors.Is(err, fridgedomain.ErrNotAMember):
		status, code = http.StatusNotFound, "not_a_member"
	case errors.Is(err, fridgedomain.ErrOwnerCannotLeave):
		status, code = http.StatusConflict, "owner_cannot_leave"
	case errors.Is(err, fridgedomain.ErrFridgeNotFound):
		status, code = http.StatusNotFound, "fridge_not_found"
	case errors.Is(err, fridgedomain.ErrNameRequired), errors.Is(err, fridgedomain.ErrInvalidUser):
		status, code = http.StatusBadRequest, "invalid_request"
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	h.log.BusinessError(op+": rejected", err, args...)
	writeError(w, status, code, err.Error())
}
