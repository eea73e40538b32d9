package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"taste-tribe/internal/model"
	"taste-tribe/pkg/apierror"
)

type tokenValidator interface {
	ValidateToken(tokenString string) (*model.AuthClaims, error)
}

type revocationChecker interface {
	IsRevoked(jti string) bool
}

// accountLookup loads the stored account behind a token subject.
type accountLookup interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

// AuthMiddleware moves a request through Unauthenticated, TokenPresent and
// TokenValidated before it is Authorized; any failed step rejects it with 401.
// Role and username come from the stored account, not from the token, so a
// role change or account deletion applies to tokens already issued.
type AuthMiddleware struct {
	validator   tokenValidator
	revocations revocationChecker
	accounts    accountLookup
}

func NewAuthMiddleware(validator tokenValidator, revocations revocationChecker, accounts accountLookup) *AuthMiddleware {
	return &AuthMiddleware{validator: validator, revocations: revocations, accounts: accounts}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeAPIError(w, apierror.New(apierror.CodeMissingCredential, "missing bearer token", "", http.StatusUnauthorized))
			return
		}

		claims, err := m.authenticate(r.Context(), token)
		if err != nil {
			writeAPIError(w, err)
			return
		}
		noteUser(r.Context(), claims.UserID)

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// OptionalAuth attaches claims for a valid, unrevoked token and otherwise lets
// the request through anonymously.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if ok {
			if claims, err := m.authenticate(r.Context(), token); err == nil {
				noteUser(r.Context(), claims.UserID)
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) RequireRoles(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := map[string]struct{}{}
	for _, role := range allowedRoles {
		roleSet[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeAPIError(w, apierror.New(apierror.CodeMissingCredential, "authentication required", "", http.StatusUnauthorized))
				return
			}

			if _, exists := roleSet[strings.ToLower(claims.Role)]; !exists {
				writeAPIError(w, apierror.New(apierror.CodeForbidden, "insufficient permissions", "", http.StatusForbidden))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRoles(model.RoleAdmin)(next)
}

func (m *AuthMiddleware) authenticate(ctx context.Context, token string) (*model.AuthClaims, error) {
	claims, err := m.validator.ValidateToken(token)
	if err != nil {
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusUnauthorized {
			return nil, apiErr
		}
		return nil, apierror.New(apierror.CodeInvalidOrExpiredToken, "token is invalid or expired", "", http.StatusUnauthorized)
	}

	if m.revocations != nil && m.revocations.IsRevoked(claims.TokenID) {
		return nil, apierror.New(apierror.CodeRevokedToken, "token has been revoked", "", http.StatusUnauthorized)
	}
	if m.accounts == nil {
		return claims, nil
	}

	user, err := m.accounts.FindByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, apierror.New(apierror.CodeRevokedToken, "account no longer exists", "", http.StatusUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("load token subject: %w", err)
	}

	current := *claims
	current.Username = user.Username
	current.Role = user.Role()
	return &current, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}

	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

func WithClaims(ctx context.Context, claims *model.AuthClaims) context.Context {
	return context.WithValue(ctx, authClaimsContextKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*model.AuthClaims)
	return claims, ok && claims != nil
}
