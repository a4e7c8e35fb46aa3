package model

import "time"

// CanonicalStatus gates which projection rows count toward reports.
// VALID is the only counted value; VOID rows remain for audit.
type CanonicalStatus string

const (
	CanonicalValid CanonicalStatus = "VALID"
	CanonicalVoid  CanonicalStatus = "VOID"
)

// CanonicalTransaction is the derived, queryable projection of one
// valid monetary sale event.  It mirrors the POSTED seller-shift subset
// of the ledger and must stay numerically identical to it; unlike the
// ledger it follows the trip, so a transfer re-tags its business day.
type CanonicalTransaction struct {
	ID          uint64          // canonical_transactions.id
	PresaleID   uint64          // canonical_transactions.presale_id
	TicketID    *uint64         // canonical_transactions.ticket_id (nullable)
	BusinessDay string          // canonical_transactions.business_day
	AmountCents int64           // canonical_transactions.amount_cents
	Method      PaymentMethod   // canonical_transactions.method
	Status      CanonicalStatus // canonical_transactions.status
	CreatedAt   time.Time       // canonical_transactions.created_at
}
