package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerAndLogin(t *testing.T, env *testEnv) string {
	t.Helper()

	creds := map[string]any{"email": "ops@example.com", "password": "s3cret-pass"}
	w := env.do(t, http.MethodPost, "/api/admin/register", creds, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/admin/login", creds, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestAdminRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	registerAndLogin(t, env)

	t.Run("duplicate registration rejected", func(t *testing.T) {
		creds := map[string]any{"email": "ops@example.com", "password": "s3cret-pass"}
		w := env.do(t, http.MethodPost, "/api/admin/register", creds, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		creds := map[string]any{"email": "ops@example.com", "password": "wrong-password"}
		w := env.do(t, http.MethodPost, "/api/admin/login", creds, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown admin rejected", func(t *testing.T) {
		creds := map[string]any{"email": "nobody@example.com", "password": "s3cret-pass"}
		w := env.do(t, http.MethodPost, "/api/admin/login", creds, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("short password rejected", func(t *testing.T) {
		creds := map[string]any{"email": "new@example.com", "password": "short"}
		w := env.do(t, http.MethodPost, "/api/admin/register", creds, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProtectedRoutes(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env)

	w := env.do(t, http.MethodPost, "/api/public-offers/applications",
		validSubmission(env.broker.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("list requires token", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/public-offers/applications", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/public-offers/applications", nil,
			map[string]string{"Authorization": "Bearer not-a-token"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token accepted", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/public-offers/applications", nil,
			map[string]string{"Authorization": "Bearer " + token})
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Len(t, body["data"].([]any), 1)
		pagination := body["pagination"].(map[string]any)
		assert.Equal(t, float64(1), pagination["total"])
	})

	t.Run("get by id with token", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/public-offers/applications/1", nil,
			map[string]string{"Authorization": "Bearer " + token})
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, "Okafor", data["surname"])
	})
}
