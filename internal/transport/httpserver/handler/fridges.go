package handler

import (
	"net/http"
	"strings"

	"fridge-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createFridgeRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type joinFridgeRequest struct {
	Code string `json:"code"`
}

func (h *Handlers) CreateFridge(w http.ResponseWriter, r *http.Request) {
	var req createFridgeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	result, err := h.Fridges.CreateFridge(r.Context(), req.Name, req.Description)
	if err != nil {
		h.writeServiceError(w, "fridges.create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toFridgeResponse(*result))
}

func (h *Handlers) JoinFridge(w http.ResponseWriter, r *http.Request) {
	var req joinFridgeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	result, err := h.Fridges.JoinFridge(r.Context(), req.Code)
	if err != nil {
		h.writeServiceError(w, "fridges.join", err, "user_id", user.ID, "code", req.Code)
		return
	}

	writeJSON(w, http.StatusOK, toFridgeResponse(*result))
}

func (h *Handlers) LeaveFridge(w http.ResponseWriter, r *http.Request) {
	fridgeID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	if err := h.Fridges.LeaveFridge(r.Context(), fridgeID); err != nil {
		h.writeServiceError(w, "fridges.leave", err, "user_id", user.ID, "fridge_id", fridgeID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetFridge(w http.ResponseWriter, r *http.Request) {
	fridgeID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.Fridges.GetFridgeByID(r.Context(), fridgeID)
	if err != nil {
		h.writeServiceError(w, "fridges.get", err, "fridge_id", fridgeID)
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "fridge_not_found", "refrigerator not found")
		return
	}

	writeJSON(w, http.StatusOK, toFridgeResponse(*result))
}

func (h *Handlers) GetFridgeByCode(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	result, err := h.Fridges.GetFridgeByInviteCode(r.Context(), code)
	if err != nil {
		h.writeServiceError(w, "fridges.get_by_code", err, "code", code)
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "invalid_invite_code", "invalid invite code")
		return
	}

	writeJSON(w, http.StatusOK, toFridgeResponse(*result))
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	fridgeID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	members, err := h.Fridges.ListMembers(r.Context(), fridgeID)
	if err != nil {
		h.writeServiceError(w, "fridges.list_members", err, "fridge_id", fridgeID)
		return
	}

	response := make([]memberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, memberResponse{
			User:     toUserResponse(member.User),
			Role:     member.Role,
			JoinedAt: member.JoinedAt,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) ListUserFridges(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	fridges, err := h.Fridges.GetUserFridges(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, "fridges.list_for_user", err, "user_id", userID)
		return
	}

	response := make([]userFridgeResponse, 0, len(fridges))
	for _, item := range fridges {
		response = append(response, userFridgeResponse{
			fridgeResponse: toFridgeResponse(item.Fridge),
			Role:           item.Role,
			JoinedAt:       item.JoinedAt,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) ResetAllData(w http.ResponseWriter, r *http.Request) {
	if err := h.Fridges.ResetAllData(r.Context()); err != nil {
		h.writeServiceError(w, "admin.reset", err)
		return
	}

	h.log.Warn("admin.reset: all membership data removed")
	w.WriteHeader(http.StatusNoContent)
}
