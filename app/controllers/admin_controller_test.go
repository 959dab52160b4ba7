package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
)

func TestAdminSetSubscriptionUpgradesUser(t *testing.T) {
	env := newToolTestEnv(t, entitlements.TierFree, nil)
	env.users.users[7] = &models.User{ID: 7, Name: "Jo", Email: "jo@example.com", Status: models.STATUS_ACTIVE}

	app := fiber.New()
	app.Put("/api/v1/admin/users/:id/subscription", withUser(1, HandleAdminSetSubscription))

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/v1/admin/users/7/subscription",
		`{"tier": "researcher", "status": "active"}`), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "researcher", body["tier"])
	assert.Equal(t, true, body["upgrade"])

	require.NotNil(t, env.subs.upserted)
	assert.Equal(t, uint(7), env.subs.upserted.UserID)
	assert.Equal(t, "researcher", env.subs.upserted.Tier)
	assert.Equal(t, "manual", env.subs.upserted.Provider)
}

func TestAdminSetSubscriptionNormalizesUnknownTier(t *testing.T) {
	env := newToolTestEnv(t, entitlements.TierFree, nil)
	env.users.users[7] = &models.User{ID: 7, Name: "Jo", Email: "jo@example.com", Status: models.STATUS_ACTIVE}

	app := fiber.New()
	app.Put("/api/v1/admin/users/:id/subscription", withUser(1, HandleAdminSetSubscription))

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/v1/admin/users/7/subscription",
		`{"tier": "platinum-mega"}`), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	// Unknown tier names never grant more than free.
	assert.Equal(t, "free", body["tier"])
	assert.Equal(t, false, body["upgrade"])
}

func TestAdminSetSubscriptionUnknownUser(t *testing.T) {
	newToolTestEnv(t, entitlements.TierFree, nil)

	app := fiber.New()
	app.Put("/api/v1/admin/users/:id/subscription", withUser(1, HandleAdminSetSubscription))

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/v1/admin/users/99/subscription",
		`{"tier": "explorer"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
