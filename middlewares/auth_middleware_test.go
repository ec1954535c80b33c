package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		Sub:  7,
		Role: "teacher",
		Name: "R. Santos",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func doAuth(token string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequireAuth(testSecret)(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	})
	return rec, h(c)
}

func TestRequireAuth(t *testing.T) {
	rec, err := doAuth(signTestToken(t, testSecret, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"teacher"`)
}

func TestRequireAuthRejects(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"garbage token":  "not-a-jwt",
		"wrong secret":   signTestToken(t, "other-secret", time.Hour),
		"expired":        signTestToken(t, testSecret, -time.Minute),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := doAuth(tok)
			require.Error(t, err)
			he, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnauthorized, he.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	run := func(role string, mw echo.MiddlewareFunc) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("role", role)
		return mw(ok)(c)
	}

	assert.NoError(t, run("admin", RequireRole("admin")))
	assert.NoError(t, run("teacher", RequireRole("teacher", "admin")))

	err := run("guardian", RequireRole("teacher", "admin"))
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)

	// no role set at all
	err = run("", RequireRole("admin"))
	require.Error(t, err)
}
