package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/clinic-management/internal/config"
	"github.com/iliyamo/clinic-management/internal/middleware"
	"github.com/iliyamo/clinic-management/internal/model"
	"github.com/iliyamo/clinic-management/internal/utils"
)

func authConfig() config.Config {
	return config.Config{
		JWTSecret:   "middleware-test-secret",
		JWTIssuer:   "clinic-api",
		JWTAudience: "clinic-clients",
	}
}

// run sends a request through mw wrapped around a handler that records
// whether it was reached and echoes the stored claims.
func run(mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, bool, uint64, string) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	var uid uint64
	var role string
	h := mw(func(c echo.Context) error {
		reached = true
		uid, _ = c.Get("user_id").(uint64)
		role, _ = c.Get("role").(string)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, reached, uid, role
}

func mintToken(t *testing.T, userID, role string, ttlMin int) string {
	t.Helper()
	tok, err := utils.NewAccessToken("middleware-test-secret", "clinic-api", "clinic-clients", userID, role, ttlMin)
	require.NoError(t, err)
	return tok.Token
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	mw := middleware.JWTAuth(authConfig())
	raw := mintToken(t, "42", model.RoleDoctor, 5)

	rec, reached, uid, role := run(mw, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, model.RoleDoctor, role)
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	mw := middleware.JWTAuth(authConfig())

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + mintToken(t, "42", model.RolePatient, -1)},
		{"zero subject", "Bearer " + mintToken(t, "0", model.RolePatient, 5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, reached, _, _ := run(mw, tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, reached)
		})
	}
}

func TestJWTAuthRejectsForeignIssuer(t *testing.T) {
	mw := middleware.JWTAuth(authConfig())
	tok, err := utils.NewAccessToken("middleware-test-secret", "other-api", "clinic-clients", "42", model.RolePatient, 5)
	require.NoError(t, err)

	rec, reached, _, _ := run(mw, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	mw := middleware.RequireRole(model.RoleAdmin, model.RoleDoctor)

	call := func(role any) (*httptest.ResponseRecorder, bool) {
		req := httptest.NewRequest(http.MethodDelete, "/api/patients/1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		reached := false
		h := mw(func(c echo.Context) error {
			reached = true
			return c.NoContent(http.StatusOK)
		})
		if err := h(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec, reached
	}

	rec, reached := call(model.RoleDoctor)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)

	rec, reached = call(model.RolePatient)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)

	rec, reached = call(nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}
