package handler

import (
	"net/http"
	"strconv"

	"taste-tribe/internal/model"
	"taste-tribe/internal/service"
)

type NotificationHandler struct {
	service *service.NotificationService
}

func NewNotificationHandler(service *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	query := r.URL.Query()
	unreadOnly, _ := strconv.ParseBool(query.Get("unread"))

	list, meta, err := h.service.List(r.Context(), claims.UserID, unreadOnly,
		parseIntOrDefault(query.Get("page"), 1),
		parseIntOrDefault(query.Get("limit"), model.DefaultPageLimit),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, list, meta)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := pathID(r)
	if err := h.service.MarkRead(r.Context(), claims.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"id": id, "read": true}, nil)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.service.MarkAllRead(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]int64{"updated": updated}, nil)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := pathID(r)
	if err := h.service.Delete(r.Context(), claims.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"deleted": id}, nil)
}
