package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/boat-trip-sales/internal/handler"
	"github.com/iliyamo/boat-trip-sales/internal/middleware"
)

// RegisterRoutes registers the unauthenticated operational endpoints:
// the health probe and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the staff session endpoints.  Login, refresh
// and logout are open; account creation is owner-only since the owner
// provisions every seller and dispatcher account.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	g.POST("/register", a.Register,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)
}
