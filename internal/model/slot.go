package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotKind distinguishes slots produced by the schedule generator from
// slots entered manually by staff.  The two kinds share one table; the
// composite (kind, id) pair is the public identifier used in every API
// path and in presale/ticket references.
type SlotKind string

const (
	SlotGenerated SlotKind = "GENERATED"
	SlotManual    SlotKind = "MANUAL"
)

// SlotUID is the composite identifier of a sellable trip occurrence.
type SlotUID struct {
	Kind SlotKind // slots.kind
	ID   uint64   // slots.id
}

// String renders the uid in the "KIND:ID" form used for logging and cache keys.
func (u SlotUID) String() string { return fmt.Sprintf("%s:%d", u.Kind, u.ID) }

// ParseSlotUID parses a "KIND:ID" pair.  The kind is case-insensitive.
func ParseSlotUID(raw string) (SlotUID, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return SlotUID{}, fmt.Errorf("invalid slot uid %q", raw)
	}
	kind, err := ParseSlotKind(parts[0])
	if err != nil {
		return SlotUID{}, err
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || id == 0 {
		return SlotUID{}, fmt.Errorf("invalid slot id %q", parts[1])
	}
	return SlotUID{Kind: kind, ID: id}, nil
}

// ParseSlotKind validates a kind tag coming from a request path or body.
func ParseSlotKind(raw string) (SlotKind, error) {
	switch SlotKind(strings.ToUpper(strings.TrimSpace(raw))) {
	case SlotGenerated:
		return SlotGenerated, nil
	case SlotManual:
		return SlotManual, nil
	}
	return "", fmt.Errorf("invalid slot kind %q", raw)
}

// Slot is one sellable occurrence of a boat trip with finite seat
// capacity.  Seats are never tracked per physical seat; the slot carries
// a single seats_remaining counter mutated only by reserve/release.
//
// Invariant: 0 <= SeatsRemaining <= Capacity, enforced by the store.
type Slot struct {
	ID              uint64    // slots.id
	Kind            SlotKind  // slots.kind
	BoatName        string    // slots.boat_name
	TripDate        string    // slots.trip_date (YYYY-MM-DD, local business day)
	StartTime       string    // slots.start_time (HH:MM)
	DurationMin     uint32    // slots.duration_min (0 when unknown)
	Capacity        int       // slots.capacity
	SeatsRemaining  int       // slots.seats_remaining
	PriceAdultCents int64     // slots.price_adult_cents
	PriceTeenCents  int64     // slots.price_teen_cents
	PriceChildCents int64     // slots.price_child_cents
	IsActive        bool      // slots.is_active
	CreatedAt       time.Time // slots.created_at
	UpdatedAt       time.Time // slots.updated_at
}

// UID returns the composite identifier of the slot.
func (s *Slot) UID() SlotUID { return SlotUID{Kind: s.Kind, ID: s.ID} }

// CategoryPrice returns the per-seat price for a ticket category.
func (s *Slot) CategoryPrice(cat TicketCategory) int64 {
	switch cat {
	case CategoryTeen:
		return s.PriceTeenCents
	case CategoryChild:
		return s.PriceChildCents
	default:
		return s.PriceAdultCents
	}
}
