package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boat-trip-sales/internal/engine"
	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// DispatcherHandler serves the pier-side views: trips for a date, the
// boarding manifest for one trip, and creation of manual slots for
// unscheduled departures.
type DispatcherHandler struct {
	Engine *engine.Engine
	Store  engine.Store
}

func NewDispatcherHandler(e *engine.Engine, s engine.Store) *DispatcherHandler {
	if e == nil || s == nil {
		panic("nil dependency passed to NewDispatcherHandler")
	}
	return &DispatcherHandler{Engine: e, Store: s}
}

// SlotsByDate handles GET /v1/slots?date=YYYY-MM-DD.
func (h *DispatcherHandler) SlotsByDate(c echo.Context) error {
	day, err := model.ValidateDay(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	slots, err := h.Store.SlotsByDate(c.Request().Context(), day)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"date": day, "slots": slots})
}

// GetSlot handles GET /v1/slots/:kind/:id.
func (h *DispatcherHandler) GetSlot(c echo.Context) error {
	uid, ok := slotFromPath(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot"})
	}
	slot, err := h.Store.Slot(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, slot)
}

type createSlotReq struct {
	BoatName        string `json:"boat_name"`
	TripDate        string `json:"trip_date"`
	StartTime       string `json:"start_time"`
	DurationMin     int    `json:"duration_min"`
	Capacity        int    `json:"capacity"`
	PriceAdultCents int64  `json:"price_adult_cents"`
	PriceTeenCents  int64  `json:"price_teen_cents"`
	PriceChildCents int64  `json:"price_child_cents"`
}

// CreateSlot handles POST /v1/slots and records a manual departure.
func (h *DispatcherHandler) CreateSlot(c echo.Context) error {
	var req createSlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.BoatName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "boat_name is required"})
	}
	day, err := model.ValidateDay(req.TripDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip_date"})
	}
	if req.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	if req.DurationMin < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_min must be non-negative"})
	}
	if req.PriceAdultCents < 0 || req.PriceTeenCents < 0 || req.PriceChildCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prices must be non-negative"})
	}

	s := &model.Slot{
		Kind:            model.SlotManual,
		BoatName:        strings.TrimSpace(req.BoatName),
		TripDate:        day,
		StartTime:       req.StartTime,
		DurationMin:     uint32(req.DurationMin),
		Capacity:        req.Capacity,
		SeatsRemaining:  req.Capacity,
		PriceAdultCents: req.PriceAdultCents,
		PriceTeenCents:  req.PriceTeenCents,
		PriceChildCents: req.PriceChildCents,
		IsActive:        true,
	}
	if err := h.Store.CreateSlot(c.Request().Context(), s); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// BoardingList handles GET /v1/dispatcher/slots/:kind/:id/tickets and
// returns the manifest the dispatcher checks at the gangway.
func (h *DispatcherHandler) BoardingList(c echo.Context) error {
	uid, ok := slotFromPath(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot"})
	}
	items, err := h.Engine.BoardingList(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"slot": uid.String(), "tickets": items})
}
