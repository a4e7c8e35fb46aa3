package model

import (
	"fmt"
	"strings"
	"time"
)

// TicketStatus is the lifecycle state of a single seat unit.  REFUNDED
// is terminal per ticket.
type TicketStatus string

const (
	TicketActive   TicketStatus = "ACTIVE"
	TicketRefunded TicketStatus = "REFUNDED"
)

// TicketCategory selects which of the slot's per-category prices a
// ticket was sold at.
type TicketCategory string

const (
	CategoryAdult TicketCategory = "ADULT"
	CategoryTeen  TicketCategory = "TEEN"
	CategoryChild TicketCategory = "CHILD"
)

// ParseTicketCategory validates a category tag from a request body.
func ParseTicketCategory(raw string) (TicketCategory, error) {
	switch TicketCategory(strings.ToUpper(strings.TrimSpace(raw))) {
	case CategoryAdult:
		return CategoryAdult, nil
	case CategoryTeen:
		return CategoryTeen, nil
	case CategoryChild:
		return CategoryChild, nil
	}
	return "", fmt.Errorf("invalid ticket category %q", raw)
}

// Ticket is one seat unit within a presale.  The slot reference is
// denormalized from the presale so boarding lists can be built without
// a join through presales; a partial transfer updates it independently.
type Ticket struct {
	ID         uint64         // tickets.id
	PresaleID  uint64         // tickets.presale_id
	SlotKind   SlotKind       // tickets.slot_kind
	SlotID     uint64         // tickets.slot_id
	Code       string         // tickets.code (unique, printed on the stub)
	Category   TicketCategory // tickets.category
	PriceCents int64          // tickets.price_cents
	Status     TicketStatus   // tickets.status
	CreatedAt  time.Time      // tickets.created_at
}

// SlotUID returns the composite identifier of the ticket's slot.
func (t *Ticket) SlotUID() SlotUID { return SlotUID{Kind: t.SlotKind, ID: t.SlotID} }
