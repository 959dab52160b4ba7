package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
)

func newAuthTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/auth/register", HandleRegister)
	app.Get("/api/v1/auth/activate", HandleActivate)
	return app
}

func TestRegisterCreatesInactiveUser(t *testing.T) {
	env := newToolTestEnv(t, entitlements.TierFree, nil)
	app := newAuthTestApp()

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/register",
		`{"name": "Jane Doe", "email": "jane@example.com", "password": "hunter22"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	user, err := env.users.GetByEmail("jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.STATUS_INACTIVE, user.Status)
	assert.NotEmpty(t, user.ActivationToken)
	assert.True(t, user.CheckPassword("hunter22"))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newToolTestEnv(t, entitlements.TierFree, nil)
	env.users.users[1] = &models.User{ID: 1, Name: "Jane", Email: "jane@example.com", Status: models.STATUS_ACTIVE}
	app := newAuthTestApp()

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/register",
		`{"name": "Jane Doe", "email": "jane@example.com", "password": "hunter22"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	newToolTestEnv(t, entitlements.TierFree, nil)
	app := newAuthTestApp()

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/register",
		`{"name": "Jane Doe", "email": "jane@example.com", "password": "abc"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestActivateFlipsStatusAndConsumesToken(t *testing.T) {
	env := newToolTestEnv(t, entitlements.TierFree, nil)
	env.users.users[1] = &models.User{
		ID: 1, Name: "Jane", Email: "jane@example.com",
		Status: models.STATUS_INACTIVE, ActivationToken: "tok123",
	}
	app := newAuthTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/auth/activate?token=tok123", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	user := env.users.users[1]
	assert.Equal(t, models.STATUS_ACTIVE, user.Status)
	assert.Empty(t, user.ActivationToken)

	// The token is single use.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/auth/activate?token=tok123", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "bad_request", body["error"])
}
