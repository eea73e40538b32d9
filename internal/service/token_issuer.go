package service

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taste-tribe/internal/model"
	"taste-tribe/pkg/apierror"
)

type accessClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenIssuerOption func(*TokenIssuer)

// WithClock replaces the wall clock used for iat/exp and for expiry checks.
func WithClock(now func() time.Time) TokenIssuerOption {
	return func(ti *TokenIssuer) {
		ti.now = now
	}
}

func NewTokenIssuer(secret string, ttl time.Duration, opts ...TokenIssuerOption) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	ti := &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(ti)
	}
	return ti, nil
}

func (ti *TokenIssuer) TTL() time.Duration {
	return ti.ttl
}

func (ti *TokenIssuer) Issue(user model.User) (model.IssuedToken, error) {
	issuedAt := ti.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(ti.ttl)
	jti := uuid.NewString()

	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: user.Username,
		Role:     user.Role(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return model.IssuedToken{}, err
	}

	return model.IssuedToken{Token: signed, TokenID: jti, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

// Parse verifies signature and expiry. A token whose exp equals the current
// second is already expired.
func (ti *TokenIssuer) Parse(tokenString string) (*model.AuthClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)

	var claims accessClaims
	parsed, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return ti.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, invalidTokenError()
	}
	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, invalidTokenError()
	}

	out := &model.AuthClaims{
		UserID:    claims.Subject,
		Username:  claims.Username,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	return out, nil
}

func invalidTokenError() error {
	return apierror.New(apierror.CodeInvalidOrExpiredToken, "token is invalid or expired", "", http.StatusUnauthorized)
}
