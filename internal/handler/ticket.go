package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boat-trip-sales/internal/engine"
	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// TicketHandler covers single-seat operations: removing one seat from
// a sale and moving one seat to another trip.
type TicketHandler struct {
	Engine *engine.Engine
}

func NewTicketHandler(e *engine.Engine) *TicketHandler {
	if e == nil {
		panic("nil engine passed to NewTicketHandler")
	}
	return &TicketHandler{Engine: e}
}

// Delete handles PATCH /v1/tickets/:id/delete.  Removing the last
// active ticket cancels the whole presale under the same rules as a
// full cancellation.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	decision, err := model.ParseRefundDecision(req.Decision)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid decision"})
	}
	p, err := h.Engine.DeleteTicket(c.Request().Context(), id, decision)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Transfer handles POST /v1/tickets/:id/transfer.
func (h *TicketHandler) Transfer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	var req transferReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	target, err := model.ParseSlotUID(req.Slot)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot"})
	}
	t, err := h.Engine.TransferTicket(c.Request().Context(), id, target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}
