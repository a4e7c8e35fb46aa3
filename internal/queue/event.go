// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used for sales events.  Consumers declare the same
// names, so declaration is idempotent on both sides.
const (
	QueueSaleRecorded  = "sale.recorded"
	QueueSaleCancelled = "sale.cancelled"
)

// SaleRecordedEvent is published when a presale is successfully
// created.  It carries enough for downstream consumers to log, notify,
// or feed analytics without querying the primary database.
type SaleRecordedEvent struct {
	PresaleID       uint64 `json:"presale_id"`
	Slot            string `json:"slot"`
	CustomerName    string `json:"customer_name"`
	Seats           int    `json:"seats"`
	TotalPriceCents int64  `json:"total_price_cents"`
	PrepaymentCents int64  `json:"prepayment_cents"`
	BusinessDay     string `json:"business_day"`
	SellerID        uint64 `json:"seller_id"`
}

// SaleCancelledEvent is published when a presale is cancelled, with
// the amount handed back and the owner-facing decision taken for any
// collected money.
type SaleCancelledEvent struct {
	PresaleID     uint64 `json:"presale_id"`
	Slot          string `json:"slot"`
	RefundedCents int64  `json:"refunded_cents"`
	Decision      string `json:"decision,omitempty"`
	BusinessDay   string `json:"business_day"`
}
