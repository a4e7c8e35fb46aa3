package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boat-trip-sales/internal/engine"
	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// PresaleHandler exposes the sale lifecycle: create, pay, cancel,
// transfer.  Authentication and role checks run in middleware; every
// state change goes through the engine so the handler never touches
// inventory or money directly.
type PresaleHandler struct {
	Engine *engine.Engine
}

func NewPresaleHandler(e *engine.Engine) *PresaleHandler {
	if e == nil {
		panic("nil engine passed to NewPresaleHandler")
	}
	return &PresaleHandler{Engine: e}
}

type createPresaleReq struct {
	Slot            string `json:"slot"` // "GENERATED:12" or "MANUAL:3"
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	Adults          int    `json:"adults"`
	Teens           int    `json:"teens"`
	Children        int    `json:"children"`
	PrepaymentCents int64  `json:"prepayment_cents"`
	Method          string `json:"method"`
	CashCents       int64  `json:"cash_cents"`
	CardCents       int64  `json:"card_cents"`
	SellerID        uint64 `json:"seller_id"` // optional, defaults to the caller
}

// Create handles POST /v1/presales.
func (h *PresaleHandler) Create(c echo.Context) error {
	actorID, err := getSellerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPresaleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	uid, err := model.ParseSlotUID(req.Slot)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot"})
	}
	var method model.PaymentMethod
	if strings.TrimSpace(req.Method) != "" {
		if method, err = model.ParsePaymentMethod(req.Method); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment method"})
		}
	}

	p, err := h.Engine.CreatePresale(c.Request().Context(), engine.CreatePresaleInput{
		Slot:            uid,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Adults:          req.Adults,
		Teens:           req.Teens,
		Children:        req.Children,
		PrepaymentCents: req.PrepaymentCents,
		Method:          method,
		CashCents:       req.CashCents,
		CardCents:       req.CardCents,
		SellerID:        req.SellerID,
		ActorID:         actorID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Get handles GET /v1/presales/:id and returns the sale with its
// tickets and ledger history.
func (h *PresaleHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid presale id"})
	}
	detail, err := h.Engine.PresaleDetail(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

type paymentReq struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
	CashCents   int64  `json:"cash_cents"`
	CardCents   int64  `json:"card_cents"`
}

// TopUp handles PATCH /v1/presales/:id/payment, recording a partial
// payment toward the outstanding remainder.
func (h *PresaleHandler) TopUp(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid presale id"})
	}
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	var method model.PaymentMethod
	if strings.TrimSpace(req.Method) != "" {
		var err error
		if method, err = model.ParsePaymentMethod(req.Method); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment method"})
		}
	}
	p, err := h.Engine.TopUpPayment(c.Request().Context(), id, req.AmountCents, method, req.CashCents, req.CardCents)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Accept handles PATCH /v1/presales/:id/accept-payment, settling the
// exact outstanding remainder.
func (h *PresaleHandler) Accept(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid presale id"})
	}
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	method, err := model.ParsePaymentMethod(req.Method)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment method"})
	}
	p, err := h.Engine.AcceptPayment(c.Request().Context(), id, method, req.CashCents, req.CardCents)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

type cancelReq struct {
	Decision string `json:"decision"` // REFUND | FUND, required when money was collected
}

// Cancel handles PATCH /v1/presales/:id/delete.
func (h *PresaleHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid presale id"})
	}
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	decision, err := model.ParseRefundDecision(req.Decision)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid decision"})
	}
	p, err := h.Engine.CancelPresale(c.Request().Context(), id, decision)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

type transferReq struct {
	Slot string `json:"slot"` // target slot uid
}

// Transfer handles POST /v1/presales/:id/transfer, moving the whole
// sale to another trip.
func (h *PresaleHandler) Transfer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid presale id"})
	}
	var req transferReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	target, err := model.ParseSlotUID(req.Slot)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot"})
	}
	res, err := h.Engine.TransferPresale(c.Request().Context(), id, target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
