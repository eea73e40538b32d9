package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taste-tribe/internal/model"
	"taste-tribe/pkg/apierror"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestIssuer(t *testing.T, clock *fakeClock) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer("test-secret", 24*time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	return issuer
}

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC)}
	issuer := newTestIssuer(t, clock)
	user := model.User{ID: "user-1", Username: "alice"}

	issued, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)
	assert.Equal(t, issued.IssuedAt.Add(24*time.Hour), issued.ExpiresAt)

	claims, err := issuer.Parse(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.True(t, claims.ExpiresAt.Equal(issued.ExpiresAt))

	again, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.NotEqual(t, issued.TokenID, again.TokenID)
}

func TestTokenIssuer_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	issuer := newTestIssuer(t, clock)

	issued, err := issuer.Issue(model.User{ID: "user-1", Username: "alice"})
	require.NoError(t, err)

	clock.now = issued.ExpiresAt.Add(-time.Second)
	_, err = issuer.Parse(issued.Token)
	assert.NoError(t, err)

	clock.now = issued.ExpiresAt
	_, err = issuer.Parse(issued.Token)
	assert.True(t, apierror.HasCode(err, apierror.CodeInvalidOrExpiredToken))
}

func TestTokenIssuer_Rejects(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(t, clock)
	valid, err := issuer.Issue(model.User{ID: "user-1", Username: "alice"})
	require.NoError(t, err)

	other, err := NewTokenIssuer("other-secret", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	foreign, err := other.Issue(model.User{ID: "user-1"})
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1", "jti": "x"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "user-1", "jti": "x", "exp": clock.now.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":        "not-a-token",
		"tampered":       valid.Token + "x",
		"foreign secret": foreign.Token,
		"missing exp":    noExp,
		"unexpected alg": wrongAlg,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Parse(token)
			assert.True(t, apierror.HasCode(err, apierror.CodeInvalidOrExpiredToken))
		})
	}
}

func TestNewTokenIssuer_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer("  ", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenIssuer("secret", 0)
	assert.Error(t, err)
}
