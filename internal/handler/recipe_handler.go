package handler

import (
	"net/http"
	"strings"

	"taste-tribe/internal/model"
	"taste-tribe/internal/service"
)

type RecipeHandler struct {
	recipes    *service.RecipeService
	engagement *service.EngagementService
}

func NewRecipeHandler(recipes *service.RecipeService, engagement *service.EngagementService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, engagement: engagement}
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	recipes, meta, err := h.recipes.List(r.Context(), optionalClaims(r), model.RecipeQuery{
		Search: strings.TrimSpace(query.Get("q")),
		Page:   parseIntOrDefault(query.Get("page"), 1),
		Limit:  parseIntOrDefault(query.Get("limit"), model.DefaultPageLimit),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.RecipeList{Recipes: recipes}, meta)
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.RecipeRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	recipe, err := h.recipes.Create(r.Context(), claims, payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, recipe, nil)
}

// ListByUser lists recipes authored by ?user_id, or by the caller when it is absent.
func (h *RecipeHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		userID = claims.UserID
	}

	recipes, err := h.recipes.ListByUser(r.Context(), claims, userID, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.RecipeList{Recipes: recipes}, nil)
}

func (h *RecipeHandler) ListBookmarked(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	recipes, err := h.recipes.ListBookmarked(r.Context(), claims, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.RecipeList{Recipes: recipes}, nil)
}

func (h *RecipeHandler) ListLiked(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	recipes, err := h.recipes.ListLiked(r.Context(), claims, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.RecipeList{Recipes: recipes}, nil)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.recipes.Get(r.Context(), optionalClaims(r), pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, recipe, nil)
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.RecipeRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	recipe, err := h.recipes.Update(r.Context(), claims, pathID(r), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, recipe, nil)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	recipeID := pathID(r)
	if err := h.recipes.Delete(r.Context(), claims, recipeID); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"deleted": recipeID}, nil)
}

func (h *RecipeHandler) BookmarkStatus(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status, err := h.engagement.BookmarkStatus(r.Context(), claims, pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, status, nil)
}

func (h *RecipeHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status, err := h.engagement.Bookmark(r.Context(), claims, pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, status, nil)
}

func (h *RecipeHandler) Unbookmark(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status, err := h.engagement.Unbookmark(r.Context(), claims, pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, status, nil)
}

func (h *RecipeHandler) Like(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status, err := h.engagement.Like(r.Context(), claims, pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, status, nil)
}

func (h *RecipeHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status, err := h.engagement.Unlike(r.Context(), claims, pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, status, nil)
}

func (h *RecipeHandler) Rate(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.RecipeRatingRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.engagement.Rate(r.Context(), claims, pathID(r), payload.Rating)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *RecipeHandler) Comments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	comments, meta, err := h.engagement.ListComments(r.Context(), pathID(r),
		parseIntOrDefault(query.Get("page"), 1),
		parseIntOrDefault(query.Get("limit"), model.DefaultPageLimit),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.CommentList{Comments: comments}, meta)
}

func (h *RecipeHandler) Comment(w http.ResponseWriter, r *http.Request) {
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

	comment, err := h.engagement.Comment(r.Context(), claims, pathID(r), payload.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, comment, nil)
}
