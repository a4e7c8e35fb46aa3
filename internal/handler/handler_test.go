package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/boat-trip-sales/internal/engine"
	"github.com/iliyamo/boat-trip-sales/internal/repository"
)

func newCtx(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetSellerID(t *testing.T) {
	c, _ := newCtx(http.MethodGet, "/", "")

	_, err := getSellerID(c)
	assert.Error(t, err, "missing claim")

	c.Set("seller_id", uint64(7))
	id, err := getSellerID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)

	// JWT claims decode numbers as float64.
	c.Set("seller_id", float64(42))
	id, err = getSellerID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c.Set("seller_id", "13")
	id, err = getSellerID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(13), id)

	c.Set("seller_id", "not-a-number")
	_, err = getSellerID(c)
	assert.Error(t, err)
}

func TestPathID(t *testing.T) {
	c, _ := newCtx(http.MethodGet, "/", "")
	c.SetParamNames("id")

	c.SetParamValues("12")
	id, ok := pathID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint64(12), id)

	for _, raw := range []string{"", "0", "-3", "abc"} {
		c.SetParamValues(raw)
		_, ok := pathID(c, "id")
		assert.False(t, ok, "raw=%q", raw)
	}
}

func TestSlotFromPath(t *testing.T) {
	c, _ := newCtx(http.MethodGet, "/", "")
	c.SetParamNames("kind", "id")

	c.SetParamValues("generated", "4")
	uid, ok := slotFromPath(c)
	require.True(t, ok)
	assert.Equal(t, "GENERATED:4", uid.String())

	c.SetParamValues("boat", "4")
	_, ok = slotFromPath(c)
	assert.False(t, ok)

	c.SetParamValues("MANUAL", "0")
	_, ok = slotFromPath(c)
	assert.False(t, ok)
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"domain rule", engine.ErrDecisionRequired, http.StatusBadRequest},
		{"mixed split", engine.ErrMixedSplitMismatch, http.StatusBadRequest},
		{"unknown seller", repository.ErrSellerNotFound, http.StatusBadRequest},
		{"presale missing", repository.ErrPresaleNotFound, http.StatusNotFound},
		{"slot missing", repository.ErrSlotNotFound, http.StatusNotFound},
		{"no rows", sql.ErrNoRows, http.StatusNotFound},
		{"no seats", repository.ErrNoSeats, http.StatusConflict},
		{"over capacity", repository.ErrSeatCapacityExceeded, http.StatusConflict},
		{"locked override", repository.ErrOverrideLocked, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newCtx(http.MethodGet, "/", "")
			require.NoError(t, respondError(c, tc.err))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRespondErrorCarriesDomainCode(t *testing.T) {
	c, rec := newCtx(http.MethodGet, "/", "")
	require.NoError(t, respondError(c, engine.ErrDecisionRequired))
	assert.Contains(t, rec.Body.String(), "REFUND_DECISION_REQUIRED")

	c, rec = newCtx(http.MethodGet, "/", "")
	require.NoError(t, respondError(c, repository.ErrSellerNotFound))
	assert.Contains(t, rec.Body.String(), "SELLER_NOT_FOUND")
}

func TestPresaleCreateRejectsBadRequests(t *testing.T) {
	h := &PresaleHandler{}

	// No authenticated seller in context.
	c, rec := newCtx(http.MethodPost, "/v1/presales", `{}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Malformed body.
	c, rec = newCtx(http.MethodPost, "/v1/presales", `{"slot":`)
	c.Set("seller_id", uint64(7))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unparseable slot uid.
	c, rec = newCtx(http.MethodPost, "/v1/presales", `{"slot":"nope"}`)
	c.Set("seller_id", uint64(7))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown payment method.
	c, rec = newCtx(http.MethodPost, "/v1/presales", `{"slot":"GENERATED:1","method":"CHEQUE"}`)
	c.Set("seller_id", uint64(7))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPresalePaymentValidation(t *testing.T) {
	h := &PresaleHandler{}

	c, rec := newCtx(http.MethodPatch, "/v1/presales/x/payment", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("x")
	require.NoError(t, h.TopUp(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Accept requires an explicit method.
	c, rec = newCtx(http.MethodPatch, "/v1/presales/1/accept-payment", `{"cash_cents":100}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Accept(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPresaleCancelValidation(t *testing.T) {
	h := &PresaleHandler{}

	c, rec := newCtx(http.MethodPatch, "/v1/presales/1/delete", `{"decision":"KEEP"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPresaleTransferValidation(t *testing.T) {
	h := &PresaleHandler{}

	c, rec := newCtx(http.MethodPost, "/v1/presales/1/transfer", `{"slot":"GENERATED"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Transfer(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDayRange(t *testing.T) {
	get := func(query string) echo.Context {
		c, _ := newCtx(http.MethodGet, "/v1/owner/summary?"+query, "")
		return c
	}

	from, to, ok := dayRange(get("from=2025-07-14&to=2025-07-20"))
	require.True(t, ok)
	assert.Equal(t, "2025-07-14", from)
	assert.Equal(t, "2025-07-20", to)

	// A missing "to" collapses to one day.
	from, to, ok = dayRange(get("from=2025-07-14"))
	require.True(t, ok)
	assert.Equal(t, from, to)

	_, _, ok = dayRange(get(""))
	assert.False(t, ok)
	_, _, ok = dayRange(get("from=2025-07-14&to=2025-07-01"))
	assert.False(t, ok)
	_, _, ok = dayRange(get("from=14-07-2025"))
	assert.False(t, ok)
}

func TestPresetRange(t *testing.T) {
	now := time.Date(2025, 7, 14, 10, 30, 0, 0, time.UTC)

	from, to, ok := presetRange("today", now)
	require.True(t, ok)
	assert.Equal(t, "2025-07-14", from)
	assert.Equal(t, "2025-07-14", to)

	from, to, ok = presetRange("yesterday", now)
	require.True(t, ok)
	assert.Equal(t, "2025-07-13", from)
	assert.Equal(t, "2025-07-13", to)

	from, to, ok = presetRange("week", now)
	require.True(t, ok)
	assert.Equal(t, "2025-07-08", from)
	assert.Equal(t, "2025-07-14", to)

	from, to, ok = presetRange("month", now)
	require.True(t, ok)
	assert.Equal(t, "2025-07-01", from)
	assert.Equal(t, "2025-07-14", to)

	_, _, ok = presetRange("fortnight", now)
	assert.False(t, ok)
}

func TestDayRangeAcceptsPreset(t *testing.T) {
	c, _ := newCtx(http.MethodGet, "/v1/owner/summary?preset=today", "")
	from, to, ok := dayRange(c)
	require.True(t, ok)
	assert.Equal(t, from, to)
	assert.Len(t, from, 10)

	c, _ = newCtx(http.MethodGet, "/v1/owner/summary?preset=bogus", "")
	_, _, ok = dayRange(c)
	assert.False(t, ok)
}

func TestOwnerOverrideValidation(t *testing.T) {
	h := &OwnerHandler{}

	c, rec := newCtx(http.MethodPut, "/v1/owner/days/x/override", `{}`)
	c.SetParamNames("day")
	c.SetParamValues("not-a-day")
	require.NoError(t, h.SetOverride(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newCtx(http.MethodPost, "/v1/owner/days/x/lock", "")
	c.SetParamNames("day")
	c.SetParamValues("2025/07/14")
	require.NoError(t, h.LockOverride(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newCtx(http.MethodGet, "/v1/owner/days/x/override", "")
	c.SetParamNames("day")
	c.SetParamValues("July 14")
	require.NoError(t, h.GetOverride(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDispatcherSlotValidation(t *testing.T) {
	h := &DispatcherHandler{}

	c, rec := newCtx(http.MethodGet, "/v1/slots?date=tomorrow", "")
	require.NoError(t, h.SlotsByDate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newCtx(http.MethodGet, "/v1/slots/boat/1", "")
	c.SetParamNames("kind", "id")
	c.SetParamValues("boat", "1")
	require.NoError(t, h.GetSlot(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSlotRejectsNegativeDuration(t *testing.T) {
	h := &DispatcherHandler{}

	body := `{"boat_name":"Santa Maria","trip_date":"2025-07-14","capacity":10,"duration_min":-30}`
	c, rec := newCtx(http.MethodPost, "/v1/slots", body)
	require.NoError(t, h.CreateSlot(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "duration_min")
}
