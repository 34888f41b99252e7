package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	authconfig "welfare-cms/internal/auth/config"
	contentconfig "welfare-cms/internal/content/config"
	"welfare-cms/internal/di"
	apperrors "welfare-cms/internal/shared/errors"
	"welfare-cms/internal/shared/logger"
	siteconfig "welfare-cms/internal/site/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	return newTestServerWith(t, &ServerConfig{
		CORSAllowOrigins: "*",
		BodyLimitMB:      1,
		SubmitRateLimit:  2,
		SubmitRateWindow: time.Minute,
	}, nil)
}

func newTestServerWith(t *testing.T, cfg *ServerConfig, siteCfg *siteconfig.Config) *fiber.App {
	t.Helper()
	container := di.NewContainer(logger.Nop())
	authCfg := &authconfig.Config{
		AdminUsername:    "admin",
		JWTIssuer:        "welfare-cms",
		AccessTokenTTL:   time.Hour,
		CookieName:       "welfare_admin",
		CookiePath:       "/",
		CookieSameSite:   "Lax",
		LoginMaxAttempts: 5,
		LoginWindow:      time.Minute,
	}
	require.NoError(t, container.Initialize(context.Background(), contentconfig.DefaultContentConfig(), authCfg, siteCfg))
	t.Cleanup(func() { _ = container.Close(context.Background()) })

	return newApp(container, cfg, logger.Nop())
}

// behindProxy trusts every peer so X-Forwarded-For picks the client.
func behindProxy() *ServerConfig {
	return &ServerConfig{
		CORSAllowOrigins: "*",
		BodyLimitMB:      1,
		SubmitRateLimit:  2,
		SubmitRateWindow: time.Minute,
		ProxyHeader:      fiber.HeaderXForwardedFor,
		TrustedProxies:   []string{"0.0.0.0/0", "::/0"},
	}
}

func TestServer_Health(t *testing.T) {
	app := newTestServer(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get("X-Request-ID"), 26)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "HEALTHY", body["status"])
	assert.Equal(t, "ok", body["components"].(map[string]interface{})["store"])
}

func TestServer_ContentRoundTrip(t *testing.T) {
	app := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/about", strings.NewReader(`{"title":"Who we are"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/about", nil))
	require.NoError(t, err)
	var about map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&about))
	assert.Equal(t, "Who we are", about["title"])
}

func TestServer_SubmitRateLimited(t *testing.T) {
	app := newTestServer(t)

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/contact/submit",
			strings.NewReader(`{"name":"A","email":"a@example.org","message":"hi"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestServer_SubmitRateLimitedPerClient(t *testing.T) {
	app := newTestServerWith(t, behindProxy(), nil)

	submit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/contact/submit",
			strings.NewReader(`{"name":"A","email":"a@example.org","message":"hi"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(fiber.HeaderXForwardedFor, ip)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, submit("203.0.113.7"))
	assert.Equal(t, http.StatusOK, submit("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, submit("203.0.113.7"))
	assert.Equal(t, http.StatusOK, submit("198.51.100.2"))
}

func TestServer_SiteContactFormRateLimited(t *testing.T) {
	siteCfg := siteconfig.DefaultConfig()
	siteCfg.BaseURL = "http://127.0.0.1:1"
	siteCfg.FetchTimeout = 500 * time.Millisecond
	app := newTestServerWith(t, behindProxy(), siteCfg)

	post := func(ip string) int {
		form := url.Values{"name": {"A"}, "email": {"a@example.org"}, "message": {"hi"}}
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
		req.Header.Set(fiber.HeaderXForwardedFor, ip)
		resp, err := app.Test(req, 5000)
		require.NoError(t, err)
		return resp.StatusCode
	}

	// The API is unreachable, so admitted posts fail upstream.
	assert.Equal(t, http.StatusBadGateway, post("203.0.113.7"))
	assert.Equal(t, http.StatusBadGateway, post("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, post("203.0.113.7"))
	assert.Equal(t, http.StatusBadGateway, post("198.51.100.2"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/contact", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler(logger.Nop())})
	app.Get("/app", func(c *fiber.Ctx) error { return apperrors.NewNotFoundError("album") })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrMethodNotAllowed })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("boom") })

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/app", http.StatusNotFound, "not_found"},
		{"/fiber", http.StatusMethodNotAllowed, "method_not_allowed"},
		{"/plain", http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, tt.code, body["error"], tt.path)
		assert.NotEmpty(t, body["message"], tt.path)
	}
}

func TestHashPasswordCommand(t *testing.T) {
	var out bytes.Buffer
	hashPasswordCmd.SetOut(&out)
	plainPassword = "correct horse battery"
	t.Cleanup(func() { plainPassword = "" })

	require.NoError(t, hashPasswordCmd.RunE(hashPasswordCmd, nil))

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct horse battery")))
}
