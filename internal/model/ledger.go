package model

import "time"

// LedgerKind buckets journal rows by the shift that produced them.
// Owner aggregations only count SELLER_SHIFT rows; dispatcher rows are
// informational (on-boat corrections) and reconciled separately.
type LedgerKind string

const (
	KindSellerShift     LedgerKind = "SELLER_SHIFT"
	KindDispatcherShift LedgerKind = "DISPATCHER_SHIFT"
)

// LedgerType names the monetary event a journal row records.  A
// cancellation never edits prior rows; it appends a SALE_CANCEL_REVERSE
// row carrying the absolute amount being reversed.  A cross-day
// transfer appends a reverse on the source day paired with a
// SALE_TRANSFER row on the target day.
type LedgerType string

const (
	TypeSalePrepayment LedgerType = "SALE_PREPAYMENT"
	TypeSaleAccepted   LedgerType = "SALE_ACCEPTED"
	TypeSaleTopUp      LedgerType = "SALE_TOPUP"
	TypeSaleTransfer   LedgerType = "SALE_TRANSFER"
	TypeCancelReverse  LedgerType = "SALE_CANCEL_REVERSE"
)

// LedgerStatus gates which rows are counted by aggregates.  POSTED is
// the only counted value; VOID rows are retained for audit only.
type LedgerStatus string

const (
	LedgerPosted LedgerStatus = "POSTED"
	LedgerVoid   LedgerStatus = "VOID"
)

// LedgerEntry is an immutable journal row.  Rows are append-only: a
// correction is a new entry, never an edit, so the journal can always
// explain how a day's figures came to be.
type LedgerEntry struct {
	ID          uint64         // ledger_entries.id
	PresaleID   *uint64        // ledger_entries.presale_id (nullable)
	SellerID    *uint64        // ledger_entries.seller_id (nullable)
	BusinessDay string         // ledger_entries.business_day (YYYY-MM-DD)
	Kind        LedgerKind     // ledger_entries.kind
	Type        LedgerType     // ledger_entries.type
	AmountCents int64          // ledger_entries.amount_cents (always >= 0)
	CashCents   int64          // ledger_entries.cash_cents
	CardCents   int64          // ledger_entries.card_cents
	Method      PaymentMethod  // ledger_entries.method
	Decision    RefundDecision // ledger_entries.decision (reverse rows only)
	Status      LedgerStatus   // ledger_entries.status
	CreatedAt   time.Time      // ledger_entries.created_at
}
