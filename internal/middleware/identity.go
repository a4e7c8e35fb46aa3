package middleware

// identity.go holds helpers shared across middleware files.  The cache
// and rate-limit key builders need a stable per-caller identifier that
// works for both authenticated and anonymous requests.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// callerID extracts a seller identifier from the request context.  It
// returns "guest" when nobody is authenticated.
func callerID(c echo.Context) string {
	switch v := c.Get("seller_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	}
	return "guest"
}
