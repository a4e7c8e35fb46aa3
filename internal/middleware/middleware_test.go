package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/boat-trip-sales/internal/utils"
)

func newCtx(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestJWTAuthAcceptsSignedToken(t *testing.T) {
	const secret = "test-secret"
	tok, err := utils.NewAccessToken(secret, 7, "SELLER", 5)
	require.NoError(t, err)

	var gotID, gotRole any
	next := func(c echo.Context) error {
		gotID = c.Get("seller_id")
		gotRole = c.Get("role")
		return c.NoContent(http.StatusOK)
	}

	c, rec := newCtx("Bearer " + tok.Token)
	require.NoError(t, JWTAuth(secret)(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	// Numeric claims round-trip through JSON as float64.
	assert.Equal(t, float64(7), gotID)
	assert.Equal(t, "SELLER", gotRole)
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	const secret = "test-secret"
	mw := JWTAuth(secret)

	c, rec := newCtx("")
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newCtx("Bearer not-a-jwt")
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Signed with a different secret.
	other, err := utils.NewAccessToken("other-secret", 7, "SELLER", 5)
	require.NoError(t, err)
	c, rec = newCtx("Bearer " + other.Token)
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole("DISPATCHER", "OWNER")

	c, rec := newCtx("")
	c.Set("role", "OWNER")
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newCtx("")
	c.Set("role", "SELLER")
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newCtx("")
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCallerID(t *testing.T) {
	c, _ := newCtx("")
	assert.Equal(t, "guest", callerID(c))

	c.Set("seller_id", float64(42))
	assert.Equal(t, "42", callerID(c))

	c.Set("seller_id", uint64(7))
	assert.Equal(t, "7", callerID(c))

	c.Set("seller_id", "abc")
	assert.Equal(t, "abc", callerID(c))
}
