package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shiftwatch/dashboard/backend/internal/config"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 3600

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg.Dashboard.PasswordHash = string(hash)

	h, err := NewHandler(cfg, nil, nil, nil, nil)
	require.NoError(t, err)
	h.RegisterRoutes()
	return h
}

func doJSON(t *testing.T, h *Handler, method, path, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestLogin(t *testing.T) {
	t.Run("correct password sets a session cookie", func(t *testing.T) {
		h := testHandler(t)

		rec, resp := doJSON(t, h, http.MethodPost, "/auth/login", `{"password":"hunter2"}`)

		assert.True(t, resp.Success)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, sessionCookieName, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		h := testHandler(t)

		rec, resp := doJSON(t, h, http.MethodPost, "/auth/login", `{"password":"wrong"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, resp.Success)
		assert.Equal(t, "incorrect password", resp.Message)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("missing password fails validation", func(t *testing.T) {
		h := testHandler(t)

		_, resp := doJSON(t, h, http.MethodPost, "/auth/login", `{}`)

		assert.False(t, resp.Success)
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("request without session cookie is rejected", func(t *testing.T) {
		h := testHandler(t)

		_, resp := doJSON(t, h, http.MethodGet, "/api/shifts", "")

		assert.False(t, resp.Success)
		assert.Equal(t, "not logged in", resp.Message)
	})

	t.Run("request with a garbage token is rejected", func(t *testing.T) {
		h := testHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/refreshes", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "not-a-jwt"})
		rec := httptest.NewRecorder()
		h.Mux.ServeHTTP(rec, req)

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "invalid session token", resp.Message)
	})
}

func TestLogout(t *testing.T) {
	h := testHandler(t)

	rec, resp := doJSON(t, h, http.MethodPost, "/auth/logout", "")

	assert.True(t, resp.Success)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}
