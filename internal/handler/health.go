package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the load-balancer probe.  It returns plain "ok" with 200.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
