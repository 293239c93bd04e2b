package handler

import (
	"net/http"
	"strings"

	fridgedomain "fridge-app-go/internal/domain/fridge"
	"fridge-app-go/internal/transport/httpserver/middleware"
)

type setCurrentUserRequest struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Email        *string `json:"email"`
	ProfileImage *string `json:"profile_image"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no_current_user", "no current user")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handlers) SetMe(w http.ResponseWriter, r *http.Request) {
	var req setCurrentUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.ID <= 0 || req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id and name are required")
		return
	}

	result, err := h.Fridges.SetCurrentUser(r.Context(), fridgedomain.User{
		ID:           req.ID,
		Name:         req.Name,
		Email:        req.Email,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		h.writeServiceError(w, "me.set", err, "user_id", req.ID)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(*result))
}
