package handler

import (
	"net/http"
	"strings"

	"taste-tribe/internal/model"
	"taste-tribe/internal/service"
)

type EngagementHandler struct {
	service *service.EngagementService
}

func NewEngagementHandler(service *service.EngagementService) *EngagementHandler {
	return &EngagementHandler{service: service}
}

// Rate is the body-addressed form of PUT /recipes/{id}/rating.
func (h *EngagementHandler) Rate(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.RatingRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.service.Rate(r.Context(), claims, strings.TrimSpace(payload.RecipeID), payload.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *EngagementHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.CommentRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), claims, pathID(r), payload.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, comment, nil)
}

func (h *EngagementHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	commentID := pathID(r)
	if err := h.service.DeleteComment(r.Context(), claims, commentID); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"deleted": commentID}, nil)
}
