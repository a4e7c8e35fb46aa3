package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boat-trip-sales/internal/handler"
	"github.com/iliyamo/boat-trip-sales/internal/middleware"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1/owner.
// cacheMW, when non-nil, is applied to the read endpoints only so
// override writes always hit the database.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	reads := []echo.MiddlewareFunc{}
	if cacheMW != nil {
		reads = append(reads, cacheMW)
	}
	g.GET("/summary", o.Summary, reads...)
	g.GET("/reconcile", o.Reconcile, reads...)
	g.GET("/occupancy", o.Occupancy, reads...)
	g.GET("/sellers", o.Sellers, reads...)

	g.GET("/days/:day/override", o.GetOverride)
	g.PUT("/days/:day/override", o.SetOverride)
	g.POST("/days/:day/lock", o.LockOverride)
}
