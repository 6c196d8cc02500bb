package auth

import (
	"encoding/json"
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apihttp "github.com/spec-kit/token-service/internal/api/http"
	"github.com/spec-kit/token-service/internal/domain"
	"github.com/spec-kit/token-service/internal/observability"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestApp(t *testing.T, tm *TokenManager, mw *AuthMiddleware) *fiber.App {
	t.Helper()
	app := fiber.New()
	apihttp.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics("test"), time.Second)

	whoami := func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.JSON(fiber.Map{"subjectId": principal.SubjectID(), "type": principal.Token.TokenType})
	}

	app.Get("/me", mw.Handle, RequireAuthenticated(), whoami)
	app.Get("/admin", mw.Handle, RequireTokenType(domain.TokenTypeAdmin, domain.TokenTypeEmployee), whoami)
	app.Get("/orders", mw.Handle, RequireScope("orders:read"), whoami)
	app.Get("/open", RequireAuthenticated(), whoami)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, authorization string) (int, map[string]any, errorBody) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))

	var body errorBody
	if errObj, ok := raw["error"].(map[string]any); ok {
		body.Error.Code, _ = errObj["code"].(string)
		body.Error.Message, _ = errObj["message"].(string)
		assert.Equal(t, body.Error.Message, resp.Header.Get(apihttp.ErrorMessageHeader))
	}
	return resp.StatusCode, raw, body
}

func TestAuthMiddlewareStatuses(t *testing.T) {
	tm := newTestManager(t)
	app := newTestApp(t, tm, NewAuthMiddleware(tm))

	customer, err := tm.GenerateToken(domain.TokenTypeCustomer, "customer-1", 0, []domain.Scope{"orders:read"})
	require.NoError(t, err)
	employee, err := tm.GenerateToken(domain.TokenTypeEmployee, "employee-1", 0, nil)
	require.NoError(t, err)

	other, err := NewTokenManager(TokenConfig{Secret: "another-secret"})
	require.NoError(t, err)
	foreign, err := other.GenerateToken(domain.TokenTypeCustomer, "customer-1", 0, nil)
	require.NoError(t, err)

	tests := []struct {
		name          string
		path          string
		authorization string
		status        int
		code          string
		subject       string
	}{
		{"missing header", "/me", "", fiber.StatusUnauthorized, "UNAUTHORIZED", ""},
		{"wrong scheme", "/me", "Basic " + customer, fiber.StatusBadRequest, "AUTH_INFO_MISSING", ""},
		{"no token", "/me", "Bearer", fiber.StatusBadRequest, "AUTH_INFO_MISSING", ""},
		{"garbage token", "/me", "Bearer not-a-token", fiber.StatusUnauthorized, "INVALID_TOKEN", ""},
		{"foreign secret", "/me", "Bearer " + foreign, fiber.StatusUnauthorized, "INVALID_TOKEN", ""},
		{"valid", "/me", "Bearer " + customer, fiber.StatusOK, "", "customer-1"},
		{"case insensitive scheme", "/me", "bearer " + customer, fiber.StatusOK, "", "customer-1"},
		{"type allowed", "/admin", "Bearer " + employee, fiber.StatusOK, "", "employee-1"},
		{"type denied", "/admin", "Bearer " + customer, fiber.StatusForbidden, "FORBIDDEN", ""},
		{"scope granted", "/orders", "Bearer " + customer, fiber.StatusOK, "", "customer-1"},
		{"scope missing", "/orders", "Bearer " + employee, fiber.StatusForbidden, "FORBIDDEN", ""},
		{"no middleware", "/open", "Bearer " + customer, fiber.StatusUnauthorized, "UNAUTHORIZED", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw, body := doRequest(t, app, tt.path, tt.authorization)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.subject != "" {
				assert.Equal(t, tt.subject, raw["subjectId"])
			}
		})
	}
}

func TestAuthMiddlewareAcceptsUnboundedExpiry(t *testing.T) {
	tm := newTestManager(t)
	app := newTestApp(t, tm, NewAuthMiddleware(tm))

	encoded, err := Encode(testSecret, domain.TokenTypeService, "billing-svc", math.MaxInt64, nil)
	require.NoError(t, err)

	status, raw, _ := doRequest(t, app, "/me", "Bearer "+encoded)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "billing-svc", raw["subjectId"])
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	tm := newTestManager(t)
	mw := NewAuthMiddleware(tm)
	app := newTestApp(t, tm, mw)

	encoded, err := tm.GenerateToken(domain.TokenTypeCustomer, "customer-1", time.Minute, nil)
	require.NoError(t, err)

	status, _, _ := doRequest(t, app, "/me", "Bearer "+encoded)
	assert.Equal(t, fiber.StatusOK, status)

	mw.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	status, _, body := doRequest(t, app, "/me", "Bearer "+encoded)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", body.Error.Code)
}
