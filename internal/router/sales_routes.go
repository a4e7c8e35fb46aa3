package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boat-trip-sales/internal/handler"
	"github.com/iliyamo/boat-trip-sales/internal/middleware"
)

// RegisterSales registers the presale and ticket lifecycle under /v1.
// Every seat and money mutation requires an authenticated staff
// member; extra is appended to the group (rate limiting in
// production, nothing in tests).
func RegisterSales(e *echo.Echo, p *handler.PresaleHandler, t *handler.TicketHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	mw := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("SELLER", "DISPATCHER", "OWNER"),
	}, extra...)
	g := e.Group("/v1", mw...)

	g.POST("/presales", p.Create)
	g.GET("/presales/:id", p.Get)
	g.PATCH("/presales/:id/payment", p.TopUp)
	g.PATCH("/presales/:id/accept-payment", p.Accept)
	g.PATCH("/presales/:id/delete", p.Cancel)
	g.POST("/presales/:id/transfer", p.Transfer)

	g.PATCH("/tickets/:id/delete", t.Delete)
	g.POST("/tickets/:id/transfer", t.Transfer)
}
