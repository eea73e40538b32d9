package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taste-tribe/internal/config"
	"taste-tribe/internal/database/dbtest"
)

const (
	testAdminUsername = "chef"
	testAdminPassword = "AdminPass123!"
	testPassword      = "Password123!"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
	} `json:"meta"`
}

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:              "5000",
		RequestTimeout:          10 * time.Second,
		DatabaseURL:             "sqlite://:memory:",
		DBMaxConns:              1,
		JWTSecret:               "test-secret",
		JWTAccessTTL:            24 * time.Hour,
		RevocationSweepInterval: time.Minute,
		CORSOrigins:             []string{"http://localhost:3001"},
		RateLimitRPM:            1000,
		AuthRateLimitRPM:        1000,
		AvatarMaxSize:           1 << 20,
		AvatarMaxDimension:      64,
		AvatarMaxPixels:         1_000_000,
		KafkaTopic:              "tastetribe.activity",
		AdminUsername:           testAdminUsername,
		AdminEmail:              "chef@example.com",
		AdminPassword:           testAdminPassword,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	db := dbtest.New(t)
	appHandler, shutdown, err := NewHandler(t.Context(), cfg, db)
	require.NoError(t, err)
	t.Cleanup(shutdown)

	server := httptest.NewServer(appHandler)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method string, url string, body any, token string) (int, envelope) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func errorCode(env envelope) string {
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}

func register(t *testing.T, baseURL string, username string) string {
	t.Helper()

	status, env := doJSON(t, http.MethodPost, baseURL+"/api/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, status, "register %s: %+v", username, env.Error)

	var user struct {
		ID string `json:"id"`
	}
	decodeData(t, env, &user)
	require.NotEmpty(t, user.ID)
	return user.ID
}

func login(t *testing.T, baseURL string, path string, username string, password string) string {
	t.Helper()

	status, env := doJSON(t, http.MethodPost, baseURL+path, map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, status, "login %s: %+v", username, env.Error)

	var tokens struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decodeData(t, env, &tokens)
	require.NotEmpty(t, tokens.AccessToken)
	return tokens.AccessToken
}
