package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"taste-tribe/internal/middleware"
	"taste-tribe/internal/model"
	"taste-tribe/pkg/apierror"
)

const maxJSONBodyBytes = 1 << 20

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    apierror.CodeInternal,
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrUserNotFound):
		status, body.Code, body.Message = http.StatusNotFound, apierror.CodeNotFound, "User not found"
	case errors.Is(err, model.ErrRecipeNotFound):
		status, body.Code, body.Message = http.StatusNotFound, apierror.CodeNotFound, "Recipe not found"
	case errors.Is(err, model.ErrCommentNotFound):
		status, body.Code, body.Message = http.StatusNotFound, apierror.CodeNotFound, "Comment not found"
	case errors.Is(err, model.ErrNotificationNotFound):
		status, body.Code, body.Message = http.StatusNotFound, apierror.CodeNotFound, "Notification not found"
	case errors.Is(err, model.ErrUserAlreadyExists):
		status, body.Code, body.Message = http.StatusConflict, apierror.CodeAlreadyExists, "User already exists"
	case errors.Is(err, model.ErrInvalidCredentials):
		status, body.Code, body.Message = http.StatusUnauthorized, apierror.CodeAuthenticationFailed, "Invalid credentials"
	case errors.Is(err, model.ErrUnauthorized):
		status, body.Code, body.Message = http.StatusUnauthorized, apierror.CodeMissingCredential, "Authentication required"
	case errors.Is(err, model.ErrForbidden):
		status, body.Code, body.Message = http.StatusForbidden, apierror.CodeForbidden, "Access denied"
	case errors.Is(err, model.ErrInvalidInput):
		status, body.Code, body.Message = http.StatusBadRequest, apierror.CodeValidation, "Invalid input"
	default:
		slog.Error("unhandled error in writeError",
			"request_id", middleware.RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apierror.New(apierror.CodePayloadTooLarge, "request body too large", "", http.StatusRequestEntityTooLarge)
		case errors.Is(err, io.EOF):
			return apierror.Validation("request body is required", "")
		default:
			return apierror.Validation("invalid JSON body", "")
		}
	}
	return nil
}

func parseIntOrDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func pathID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

// currentClaims returns the caller's claims; routes behind RequireAuth always have them.
func currentClaims(r *http.Request) (*model.AuthClaims, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return nil, model.ErrUnauthorized
	}
	return claims, nil
}

// optionalClaims returns nil for anonymous callers.
func optionalClaims(r *http.Request) *model.AuthClaims {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	return claims
}
