package app

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taste-tribe/internal/config"
	"taste-tribe/pkg/apierror"
)

func testPNG(t *testing.T, w int, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadAvatar(t *testing.T, baseURL string, token string, field string, filename string, data []byte) (int, envelope) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/users/avatar", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func fakeImageHost(t *testing.T) *httptest.Server {
	t.Helper()

	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/upload") || !strings.Contains(r.URL.Path, "/demo/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://images.example.com/avatars/me.jpg","public_id":"avatars/me","width":64,"height":64}`))
	}))
	t.Cleanup(host.Close)
	return host
}

func TestAvatarUpload(t *testing.T) {
	t.Run("rejects malformed uploads", func(t *testing.T) {
		server := newTestServer(t, testConfig())
		register(t, server.URL, "alice")
		token := login(t, server.URL, "/api/auth/login", "alice", testPassword)

		status, env := doJSON(t, http.MethodPost, server.URL+"/api/users/avatar", map[string]string{}, token)
		require.Equal(t, http.StatusBadRequest, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "No file part", env.Error.Message)

		status, env = uploadAvatar(t, server.URL, token, "picture", "me.png", testPNG(t, 8, 8))
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "No file part", env.Error.Message)

		status, env = uploadAvatar(t, server.URL, token, "avatar", "", testPNG(t, 8, 8))
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "No selected file", env.Error.Message)

		status, env = uploadAvatar(t, server.URL, token, "avatar", "notes.txt", []byte("just text"))
		require.Equal(t, http.StatusUnsupportedMediaType, status)
		assert.Equal(t, apierror.CodeUnsupportedMediaType, errorCode(env))

		status, env = uploadAvatar(t, server.URL, token, "avatar", "big.png", bytes.Repeat([]byte{0x89}, (1<<20)+1))
		require.Equal(t, http.StatusRequestEntityTooLarge, status)
		assert.Equal(t, apierror.CodePayloadTooLarge, errorCode(env))

		status, env = uploadAvatar(t, server.URL, token, "avatar", "me.png", testPNG(t, 8, 8))
		require.Equal(t, http.StatusBadGateway, status)
		assert.Equal(t, apierror.CodeUpstream, errorCode(env))
	})

	t.Run("stores the hosted url", func(t *testing.T) {
		host := fakeImageHost(t)
		cfg := testConfig()
		cfg.ImageHost = config.ImageHostConfig{
			BaseURL:   host.URL,
			CloudName: "demo",
			APIKey:    "key",
			APISecret: "secret",
			Folder:    "avatars",
		}
		server := newTestServer(t, cfg)
		register(t, server.URL, "alice")
		token := login(t, server.URL, "/api/auth/login", "alice", testPassword)

		status, env := uploadAvatar(t, server.URL, token, "avatar", "me.png", testPNG(t, 300, 120))
		require.Equal(t, http.StatusOK, status, "%+v", env.Error)
		var uploaded struct {
			SecureURL string `json:"secure_url"`
		}
		decodeData(t, env, &uploaded)
		assert.Equal(t, "https://images.example.com/avatars/me.jpg", uploaded.SecureURL)

		status, env = doJSON(t, http.MethodGet, server.URL+"/api/users/current", nil, token)
		require.Equal(t, http.StatusOK, status)
		var current struct {
			ProfilePicture string `json:"profile_picture"`
		}
		decodeData(t, env, &current)
		assert.Equal(t, uploaded.SecureURL, current.ProfilePicture)
	})
}
