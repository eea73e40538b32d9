package handler

import (
	"net/http"

	"taste-tribe/internal/model"
	"taste-tribe/internal/service"
	"taste-tribe/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
	audit   *service.AuditService
}

func NewAuthHandler(service *service.AuthService, audit *service.AuditService) *AuthHandler {
	return &AuthHandler{service: service, audit: audit}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.loginPayload(w, r)
	if !ok {
		return
	}

	tokens, err := h.service.Login(r.Context(), payload.Identifier(), payload.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, tokens, nil)
}

// AdminLogin issues a token only to admin accounts. Every attempt is audited.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.loginPayload(w, r)
	if !ok {
		return
	}

	actor := actorFromRequest(r)
	actor.Username = payload.Identifier()

	tokens, err := h.service.AdminLogin(r.Context(), payload.Identifier(), payload.Password)
	if err != nil {
		h.audit.Log(r.Context(), "admin.login", actor, model.AuditStatusFailed, "", err)
		writeError(w, r, err)
		return
	}

	actor.UserID = tokens.User.ID
	h.audit.Log(r.Context(), "admin.login", actor, model.AuditStatusSuccess, "", nil)
	writeSuccess(w, http.StatusOK, tokens, nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.service.Logout(claims)
	writeSuccess(w, http.StatusOK, map[string]bool{"logged_out": true}, nil)
}

func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), claims)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"is_authenticated": true,
		"user":             user,
	}, nil)
}

func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"logged_in_as": claims.UserID}, nil)
}

func (h *AuthHandler) loginPayload(w http.ResponseWriter, r *http.Request) (model.LoginRequest, bool) {
	var payload model.LoginRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return payload, false
	}

	if payload.Identifier() == "" {
		writeError(w, r, apierror.Validation("username or email is required", "username"))
		return payload, false
	}
	if payload.Password == "" {
		writeError(w, r, apierror.Validation("password is required", "password"))
		return payload, false
	}

	return payload, true
}
