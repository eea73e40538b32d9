package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"taste-tribe/internal/event"
	"taste-tribe/internal/model"
	"taste-tribe/pkg/apierror"
)

const (
	bcryptCost        = 12
	minPasswordLength = 8
	minUsernameLength = 3
	maxUsernameLength = 80
)

// CredentialStore is the subset of the user repository the auth flow needs.
type CredentialStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByUsernameOrEmail(ctx context.Context, key string) (model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username string, email string, excludeID string) (bool, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
}

type AuthService struct {
	users       CredentialStore
	issuer      *TokenIssuer
	revocations RevocationRegistry
	bus         event.Bus
}

func NewAuthService(users CredentialStore, issuer *TokenIssuer, revocations RevocationRegistry, bus event.Bus) *AuthService {
	return &AuthService{users: users, issuer: issuer, revocations: revocations, bus: bus}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := validateUsername(username); err != nil {
		return model.User{}, err
	}
	if err := validateEmail(email); err != nil {
		return model.User{}, err
	}
	if len(req.Password) < minPasswordLength {
		return model.User{}, apierror.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength), "password")
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email, "")
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, alreadyExistsError(username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return model.User{}, alreadyExistsError(username)
		}
		return model.User{}, err
	}

	publish(s.bus, event.TypeUserRegistered, &model.AuthClaims{UserID: user.ID, Username: user.Username}, event.Activity{})
	return user, nil
}

// Login authenticates by username or email. Unknown users and wrong passwords
// fail identically.
func (s *AuthService) Login(ctx context.Context, identifier string, password string) (model.AccessTokenResponse, error) {
	user, err := s.authenticate(ctx, identifier, password)
	if err != nil {
		return model.AccessTokenResponse{}, err
	}
	return s.issue(user)
}

// AdminLogin is Login restricted to accounts holding the admin role.
func (s *AuthService) AdminLogin(ctx context.Context, identifier string, password string) (model.AccessTokenResponse, error) {
	user, err := s.authenticate(ctx, identifier, password)
	if err != nil {
		return model.AccessTokenResponse{}, err
	}
	if !user.IsAdmin {
		return model.AccessTokenResponse{}, apierror.New(apierror.CodeForbidden, "admin access required", "", http.StatusForbidden)
	}
	return s.issue(user)
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(claims *model.AuthClaims) {
	if claims == nil {
		return
	}
	s.revocations.Revoke(claims.TokenID, claims.ExpiresAt)
	slog.Info("token revoked", "user_id", claims.UserID, "jti", claims.TokenID)
}

func (s *AuthService) ValidateToken(token string) (*model.AuthClaims, error) {
	return s.issuer.Parse(token)
}

func (s *AuthService) VerifyPassword(user model.User, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)) == nil
}

func (s *AuthService) CurrentUser(ctx context.Context, claims *model.AuthClaims) (model.User, error) {
	if claims == nil {
		return model.User{}, model.ErrUnauthorized
	}
	return s.users.FindByID(ctx, claims.UserID)
}

// EnsureAdmin creates the bootstrap admin or promotes an existing account with
// the same username. The password of an existing account is left alone.
func (s *AuthService) EnsureAdmin(ctx context.Context, username string, email string, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, username)
	switch {
	case err == nil:
		if existing.IsAdmin {
			return nil
		}
		existing.IsAdmin = true
		if err := s.users.Update(ctx, &existing); err != nil {
			return fmt.Errorf("promote bootstrap admin: %w", err)
		}
		slog.Info("bootstrap admin promoted", "username", existing.Username)
		return nil
	case !errors.Is(err, model.ErrUserNotFound):
		return fmt.Errorf("lookup bootstrap admin: %w", err)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = strings.ToLower(username) + "@localhost"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap admin password: %w", err)
	}

	admin := model.User{Username: username, Email: email, PasswordHash: string(hash), IsAdmin: true}
	if err := s.users.Create(ctx, &admin); err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	slog.Info("bootstrap admin created", "username", admin.Username)
	return nil
}

func (s *AuthService) authenticate(ctx context.Context, identifier string, password string) (model.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return model.User{}, authenticationError()
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, identifier)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, authenticationError()
	}
	if err != nil {
		return model.User{}, err
	}

	if !s.VerifyPassword(user, password) {
		return model.User{}, authenticationError()
	}
	return user, nil
}

func (s *AuthService) issue(user model.User) (model.AccessTokenResponse, error) {
	token, err := s.issuer.Issue(user)
	if err != nil {
		return model.AccessTokenResponse{}, fmt.Errorf("issue token: %w", err)
	}

	return model.AccessTokenResponse{
		AccessToken: token.Token,
		TokenType:   "Bearer",
		ExpiresAt:   token.ExpiresAt,
		ExpiresIn:   int64(token.ExpiresAt.Sub(token.IssuedAt).Seconds()),
		User:        model.AuthUser{ID: user.ID, Username: user.Username, Role: user.Role()},
	}, nil
}

func authenticationError() error {
	return apierror.New(apierror.CodeAuthenticationFailed, "invalid credentials", "", http.StatusUnauthorized)
}

func alreadyExistsError(username string) error {
	return apierror.New(apierror.CodeAlreadyExists, "username or email already exists", username, http.StatusConflict)
}

func validateUsername(username string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return apierror.Validation(fmt.Sprintf("username must be %d to %d characters", minUsernameLength, maxUsernameLength), "username")
	}
	for _, r := range username {
		if !(r == '_' || r == '-' || r == '.' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return apierror.Validation("username may only contain letters, digits, '.', '_' and '-'", "username")
		}
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apierror.Validation("a valid email address is required", "email")
	}
	return nil
}
