package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
)

func TestGetUsageReportsCurrentPeriod(t *testing.T) {
	env := newToolTestEnv(t, entitlements.TierExplorer, nil)
	period := entitlements.PeriodStart(time.Now())
	_, err := env.usage.Increment(1, entitlements.FeatureDocuments, period)
	require.NoError(t, err)
	_, err = env.usage.Increment(1, entitlements.FeatureDocuments, period)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/api/v1/usage", withUser(1, HandleGetUsage))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/usage", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Tier     string `json:"tier"`
		Features map[string]struct {
			Used      int64 `json:"used"`
			Limit     int   `json:"limit"`
			Unlimited bool  `json:"unlimited"`
			Remaining int64 `json:"remaining"`
		} `json:"features"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "explorer", body.Tier)

	docs := body.Features["documents"]
	assert.EqualValues(t, 2, docs.Used)
	assert.Equal(t, 10, docs.Limit)
	assert.EqualValues(t, 8, docs.Remaining)

	// Untouched features report zero usage, not missing entries.
	dna := body.Features["dna"]
	assert.EqualValues(t, 0, dna.Used)
	assert.Equal(t, 5, dna.Limit)
}

func TestGetUsageFailsClosedOnStoreError(t *testing.T) {
	env := newToolTestEnv(t, entitlements.TierExplorer, nil)
	env.subs.err = errStoreDown

	app := fiber.New()
	app.Get("/api/v1/usage", withUser(1, HandleGetUsage))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/usage", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
