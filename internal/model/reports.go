package model

// Row types shared by the read-side store methods and the owner
// aggregation layer.

// DayTotals is the per-day roll-up of POSTED seller-shift ledger rows.
// Gross columns sum sale rows; refunded and funded columns sum the
// matching SALE_CANCEL_REVERSE rows split by routing decision.
// Collected money for a day is gross minus refunded; funded reverses
// leave collected untouched and are reported separately.
type DayTotals struct {
	Day            string
	GrossCents     int64
	GrossCashCents int64
	GrossCardCents int64
	RefundedCents  int64
	RefundedCash   int64
	RefundedCard   int64
	FundedCents    int64
}

// SellerTotals is the per-seller roll-up used by owner reporting.
type SellerTotals struct {
	SellerID       uint64 `json:"seller_id"`
	DisplayName    string `json:"display_name"`
	CollectedCents int64  `json:"collected_cents"`
	CashCents      int64  `json:"cash_cents"`
	CardCents      int64  `json:"card_cents"`
	SaleCount      int    `json:"sale_count"`
}

// OccupancyRow is one slot's fill level for owner reporting.
type OccupancyRow struct {
	Slot      SlotUID `json:"slot"`
	BoatName  string  `json:"boat_name"`
	TripDate  string  `json:"trip_date"`
	StartTime string  `json:"start_time"`
	Capacity  int     `json:"capacity"`
	SeatsSold int     `json:"seats_sold"`
}

// BoardingItem is one line of the dispatcher's boarding list.
type BoardingItem struct {
	TicketID      uint64         `json:"ticket_id"`
	Code          string         `json:"code"`
	Category      TicketCategory `json:"category"`
	PriceCents    int64          `json:"price_cents"`
	PresaleID     uint64         `json:"presale_id"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	PaidInFull    bool           `json:"paid_in_full"`
}
