package handler

import (
	"net/http"

	"taste-tribe/internal/model"
	"taste-tribe/internal/service"
	"taste-tribe/pkg/apierror"
)

type AdminHandler struct {
	admin *service.AdminService
	users *service.UserService
}

func NewAdminHandler(admin *service.AdminService, users *service.UserService) *AdminHandler {
	return &AdminHandler{admin: admin, users: users}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	users, meta, err := h.users.List(r.Context(),
		parseIntOrDefault(query.Get("page"), 1),
		parseIntOrDefault(query.Get("limit"), model.DefaultPageLimit),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.UserList{Users: users}, meta)
}

func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.UpdateRoleRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	if payload.IsAdmin == nil {
		writeError(w, r, apierror.Validation("is_admin is required", "is_admin"))
		return
	}

	user, err := h.admin.SetRole(r.Context(), claims, actorFromRequest(r), pathID(r), *payload.IsAdmin)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	userID := pathID(r)
	if err := h.admin.DeleteUser(r.Context(), claims, actorFromRequest(r), userID); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"deleted": userID}, nil)
}

func (h *AdminHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID := pathID(r)
	if err := h.admin.DeleteRecipe(r.Context(), actorFromRequest(r), recipeID); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"deleted": recipeID}, nil)
}

func (h *AdminHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID := pathID(r)
	if err := h.admin.DeleteComment(r.Context(), actorFromRequest(r), commentID); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"deleted": commentID}, nil)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, stats, nil)
}
