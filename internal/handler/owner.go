package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boat-trip-sales/internal/engine"
	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// OwnerHandler serves the owner's read side: money summaries,
// reconciliation, occupancy, per-seller breakdowns, and the manual
// day-override workflow.
type OwnerHandler struct {
	Engine *engine.Engine
}

func NewOwnerHandler(e *engine.Engine) *OwnerHandler {
	if e == nil {
		panic("nil engine passed to NewOwnerHandler")
	}
	return &OwnerHandler{Engine: e}
}

// presetRange resolves a named reporting window to a from/to day pair
// relative to the current business day.
func presetRange(preset string, now time.Time) (string, string, bool) {
	today := model.BusinessDay(now)
	switch preset {
	case "today":
		return today, today, true
	case "yesterday":
		d := model.BusinessDay(now.AddDate(0, 0, -1))
		return d, d, true
	case "week":
		return model.BusinessDay(now.AddDate(0, 0, -6)), today, true
	case "month":
		return today[:8] + "01", today, true
	}
	return "", "", false
}

// dayRange validates the range query parameters.  A preset wins over
// explicit bounds; a missing "to" collapses the range to a single day.
func dayRange(c echo.Context) (string, string, bool) {
	if preset := strings.TrimSpace(c.QueryParam("preset")); preset != "" {
		return presetRange(preset, time.Now())
	}
	from, err := model.ValidateDay(c.QueryParam("from"))
	if err != nil {
		return "", "", false
	}
	toRaw := c.QueryParam("to")
	if strings.TrimSpace(toRaw) == "" {
		return from, from, true
	}
	to, err := model.ValidateDay(toRaw)
	if err != nil || to < from {
		return "", "", false
	}
	return from, to, true
}

// Summary handles GET /v1/owner/summary?from=...&to=...
func (h *OwnerHandler) Summary(c echo.Context) error {
	from, to, ok := dayRange(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day range"})
	}
	rows, err := h.Engine.MoneySummary(c.Request().Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"from": from, "to": to, "days": rows})
}

// Reconcile handles GET /v1/owner/reconcile?from=...&to=...
func (h *OwnerHandler) Reconcile(c echo.Context) error {
	from, to, ok := dayRange(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day range"})
	}
	rows, err := h.Engine.Reconcile(c.Request().Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"from": from, "to": to, "days": rows})
}

// Occupancy handles GET /v1/owner/occupancy?from=...&to=...
func (h *OwnerHandler) Occupancy(c echo.Context) error {
	from, to, ok := dayRange(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day range"})
	}
	rows, err := h.Engine.Occupancy(c.Request().Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"from": from, "to": to, "trips": rows})
}

// Sellers handles GET /v1/owner/sellers?from=...&to=...
func (h *OwnerHandler) Sellers(c echo.Context) error {
	from, to, ok := dayRange(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day range"})
	}
	rows, err := h.Engine.SellerBreakdown(c.Request().Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"from": from, "to": to, "sellers": rows})
}

type overrideReq struct {
	RevenueCents int64  `json:"revenue_cents"`
	CashCents    int64  `json:"cash_cents"`
	CardCents    int64  `json:"card_cents"`
	Tickets      int    `json:"tickets"`
	Note         string `json:"note"`
}

// GetOverride handles GET /v1/owner/days/:day/override.
func (h *OwnerHandler) GetOverride(c echo.Context) error {
	day, err := model.ValidateDay(c.Param("day"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day"})
	}
	ov, err := h.Engine.DayOverrideFor(c.Request().Context(), day)
	if err != nil {
		if errors.Is(err, engine.ErrOverrideMissing) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no manual record for this day"})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ov)
}

// SetOverride handles PUT /v1/owner/days/:day/override.
func (h *OwnerHandler) SetOverride(c echo.Context) error {
	day, err := model.ValidateDay(c.Param("day"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day"})
	}
	var req overrideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ov := &model.DayOverride{
		BusinessDay:  day,
		RevenueCents: req.RevenueCents,
		CashCents:    req.CashCents,
		CardCents:    req.CardCents,
		Tickets:      req.Tickets,
		Note:         strings.TrimSpace(req.Note),
	}
	if err := h.Engine.SetDayOverride(c.Request().Context(), ov); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ov)
}

// LockOverride handles POST /v1/owner/days/:day/lock.
func (h *OwnerHandler) LockOverride(c echo.Context) error {
	day, err := model.ValidateDay(c.Param("day"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day"})
	}
	if err := h.Engine.LockDayOverride(c.Request().Context(), day); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"day": day, "locked": true})
}
