package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boat-trip-sales/internal/handler"
	"github.com/iliyamo/boat-trip-sales/internal/middleware"
)

// RegisterDispatcher registers the trip views under /v1.  Slot lookup
// is open to all staff roles since sellers browse departures while
// selling; creating manual slots and pulling boarding manifests is
// dispatcher work.
func RegisterDispatcher(e *echo.Echo, d *handler.DispatcherHandler, jwtSecret string) {
	staff := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("SELLER", "DISPATCHER", "OWNER"),
	)
	staff.GET("/slots", d.SlotsByDate)
	staff.GET("/slots/:kind/:id", d.GetSlot)

	dispatch := e.Group(
		"/v1/dispatcher",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("DISPATCHER", "OWNER"),
	)
	dispatch.POST("/slots", d.CreateSlot)
	dispatch.GET("/slots/:kind/:id/tickets", d.BoardingList)
}
