package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureAPIKey(t *testing.T, decorate func(*http.Request)) string {
	t.Helper()
	app := fiber.New()
	var got string
	app.Get("/", func(c *fiber.Ctx) error {
		got = extractAPIKeyFromHeader(c)
		return c.SendString("ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	decorate(req)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return got
}

func TestExtractAPIKeyFromHeader(t *testing.T) {
	assert.Equal(t, "gb_secret", captureAPIKey(t, func(r *http.Request) {
		r.Header.Set("X-API-Key", " gb_secret ")
	}))
	assert.Equal(t, "gb_secret", captureAPIKey(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer gb_secret")
	}))
	assert.Equal(t, "gb_secret", captureAPIKey(t, func(r *http.Request) {
		r.Header.Set("Authorization", "bearer gb_secret")
	}))
	// X-API-Key wins over Authorization
	assert.Equal(t, "gb_first", captureAPIKey(t, func(r *http.Request) {
		r.Header.Set("X-API-Key", "gb_first")
		r.Header.Set("Authorization", "Bearer gb_second")
	}))
	assert.Empty(t, captureAPIKey(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	}))
	assert.Empty(t, captureAPIKey(t, func(r *http.Request) {}))
}

func TestSessionOrAPIKeyPassesThroughWithoutKey(t *testing.T) {
	app := fiber.New()
	app.Use(SessionOrAPIKeyMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// No API key header: the middleware must not touch the request, so an
	// anonymous session request still reaches the handler.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
