package model

import "time"

// DayOverride is a manual owner record that fully supersedes the
// computed aggregates for one business day.  Once locked it is
// immutable, mirroring the ledger's append-only discipline at a
// coarser grain.  Computed and manual figures are never blended.
type DayOverride struct {
	BusinessDay  string     // day_overrides.business_day (YYYY-MM-DD)
	RevenueCents int64      // day_overrides.revenue_cents
	CashCents    int64      // day_overrides.cash_cents
	CardCents    int64      // day_overrides.card_cents
	Tickets      int        // day_overrides.tickets
	Note         string     // day_overrides.note
	LockedAt     *time.Time // day_overrides.locked_at (nil while editable)
	CreatedAt    time.Time  // day_overrides.created_at
	UpdatedAt    time.Time  // day_overrides.updated_at
}

// Locked reports whether the override has been finalized.
func (o *DayOverride) Locked() bool { return o.LockedAt != nil }
