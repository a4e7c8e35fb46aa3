package model

import (
	"fmt"
	"strings"
	"time"
)

// PresaleStatus is the lifecycle state of a presale.  CANCELLED is
// terminal; a presale is never hard-deleted.
type PresaleStatus string

const (
	PresaleActive    PresaleStatus = "ACTIVE"
	PresaleCancelled PresaleStatus = "CANCELLED"
)

// PaymentMethod tags how money was collected.  These are categorical
// tags only; there is no gateway integration behind them.
type PaymentMethod string

const (
	MethodCash  PaymentMethod = "CASH"
	MethodCard  PaymentMethod = "CARD"
	MethodMixed PaymentMethod = "MIXED"
)

// ParsePaymentMethod validates a method tag from a request body.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToUpper(strings.TrimSpace(raw))) {
	case MethodCash:
		return MethodCash, nil
	case MethodCard:
		return MethodCard, nil
	case MethodMixed:
		return MethodMixed, nil
	}
	return "", fmt.Errorf("invalid payment method %q", raw)
}

// RefundDecision routes prepaid money when a presale is cancelled.
// REFUND hands the money back to the customer; FUND retains it.  The
// choice is always made by a human, never inferred by the engine.
type RefundDecision string

const (
	DecisionRefund RefundDecision = "REFUND"
	DecisionFund   RefundDecision = "FUND"
)

// ParseRefundDecision validates a decision tag; the empty string is
// returned unchanged so callers can detect "no decision supplied".
func ParseRefundDecision(raw string) (RefundDecision, error) {
	switch RefundDecision(strings.ToUpper(strings.TrimSpace(raw))) {
	case DecisionRefund:
		return DecisionRefund, nil
	case DecisionFund:
		return DecisionFund, nil
	case "":
		return "", nil
	}
	return "", fmt.Errorf("invalid refund decision %q", raw)
}

// Presale is a customer's booking of one or more seats against a slot,
// carrying the full payment state of the sale.
//
// Invariants: 0 <= PrepaymentCents <= TotalPriceCents at all times, and
// CashCents + CardCents == PrepaymentCents whenever Method is MIXED.
type Presale struct {
	ID              uint64        // presales.id
	SlotKind        SlotKind      // presales.slot_kind
	SlotID          uint64        // presales.slot_id
	CustomerName    string        // presales.customer_name
	CustomerPhone   string        // presales.customer_phone
	NumberOfSeats   int           // presales.number_of_seats (ACTIVE tickets)
	TotalPriceCents int64         // presales.total_price_cents
	PrepaymentCents int64         // presales.prepayment_cents (collected so far)
	Method          PaymentMethod // presales.method
	CashCents       int64         // presales.cash_cents
	CardCents       int64         // presales.card_cents
	Status          PresaleStatus // presales.status
	SellerID        uint64        // presales.seller_id
	BusinessDay     string        // presales.business_day (YYYY-MM-DD)
	CreatedAt       time.Time     // presales.created_at
	UpdatedAt       time.Time     // presales.updated_at
}

// SlotUID returns the composite identifier of the presale's slot.
func (p *Presale) SlotUID() SlotUID { return SlotUID{Kind: p.SlotKind, ID: p.SlotID} }

// RemainingCents is the amount still owed by the customer.
func (p *Presale) RemainingCents() int64 { return p.TotalPriceCents - p.PrepaymentCents }
