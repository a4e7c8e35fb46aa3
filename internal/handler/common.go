package handler // handler defines http handlers for the sales API

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boat-trip-sales/internal/engine"
	"github.com/iliyamo/boat-trip-sales/internal/model"
	"github.com/iliyamo/boat-trip-sales/internal/repository"
)

// getSellerID extracts the seller_id claim from echo.Context.  JWT
// numeric claims arrive as float64 after JSON decoding.
func getSellerID(c echo.Context) (uint64, error) {
	switch t := c.Get("seller_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid seller_id in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// slotFromPath parses the :kind/:id pair addressing a slot.
func slotFromPath(c echo.Context) (model.SlotUID, bool) {
	kind, err := model.ParseSlotKind(c.Param("kind"))
	if err != nil {
		return model.SlotUID{}, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return model.SlotUID{}, false
	}
	return model.SlotUID{Kind: kind, ID: id}, true
}

// respondError maps engine and repository errors onto HTTP statuses.
// Domain-rule violations carry their stable code so clients can react
// (for example prompting for a refund-or-fund decision).
func respondError(c echo.Context, err error) error {
	var de *engine.Error
	if errors.As(err, &de) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": de.Code, "message": de.Message})
	}
	switch {
	case errors.Is(err, repository.ErrSellerNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "SELLER_NOT_FOUND", "message": err.Error()})
	case errors.Is(err, repository.ErrSlotNotFound),
		errors.Is(err, repository.ErrPresaleNotFound),
		errors.Is(err, repository.ErrTicketNotFound),
		errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNoSeats),
		errors.Is(err, repository.ErrSeatCapacityExceeded),
		errors.Is(err, repository.ErrOverrideLocked),
		errors.Is(err, repository.ErrDuplicateUsername):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
