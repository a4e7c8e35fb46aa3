package engine

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// DaySummaryRow is one business day in the owner's money view.  Source
// tells whether the numbers came from the ledger or from a manual
// override entered by the owner.
type DaySummaryRow struct {
	Day          string `json:"day"`
	RevenueCents int64  `json:"revenue_cents"`
	CashCents    int64  `json:"cash_cents"`
	CardCents    int64  `json:"card_cents"`
	Tickets      int    `json:"tickets"`
	FundedCents  int64  `json:"funded_cents"`
	Source       string `json:"source"`
	Locked       bool   `json:"locked"`
	Note         string `json:"note,omitempty"`
}

const (
	SourceLedger   = "LEDGER"
	SourceOverride = "OVERRIDE"
)

// MoneySummary builds the per-day money view for [fromDay, toDay].
// Days start from ledger-derived totals; a day with an override is
// replaced wholesale by the override's figures, never merged.
func (e *Engine) MoneySummary(ctx context.Context, fromDay, toDay string) ([]DaySummaryRow, error) {
	if _, err := model.ValidateDay(fromDay); err != nil {
		return nil, err
	}
	if _, err := model.ValidateDay(toDay); err != nil {
		return nil, err
	}
	totals, err := e.store.LedgerTotalsByDay(ctx, fromDay, toDay)
	if err != nil {
		return nil, err
	}
	tickets, err := e.store.TicketCountsByDay(ctx, fromDay, toDay)
	if err != nil {
		return nil, err
	}
	overrides, err := e.store.Overrides(ctx, fromDay, toDay)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]DaySummaryRow, len(totals))
	for _, t := range totals {
		byDay[t.Day] = DaySummaryRow{
			Day:          t.Day,
			RevenueCents: t.GrossCents - t.RefundedCents,
			CashCents:    t.GrossCashCents - t.RefundedCash,
			CardCents:    t.GrossCardCents - t.RefundedCard,
			Tickets:      tickets[t.Day],
			FundedCents:  t.FundedCents,
			Source:       SourceLedger,
		}
	}
	for day, ov := range overrides {
		byDay[day] = DaySummaryRow{
			Day:          day,
			RevenueCents: ov.RevenueCents,
			CashCents:    ov.CashCents,
			CardCents:    ov.CardCents,
			Tickets:      ov.Tickets,
			Source:       SourceOverride,
			Locked:       ov.Locked(),
			Note:         ov.Note,
		}
	}

	rows := make([]DaySummaryRow, 0, len(byDay))
	for _, r := range byDay {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Day < rows[j].Day })
	return rows, nil
}

// ReconcileRow compares the three independent records of one day's
// money.  Balanced holds when the canonical projection equals the
// ledger net and the money still held on active sales equals the
// ledger net less whatever was retained as trip credit.
type ReconcileRow struct {
	Day            string `json:"day"`
	CanonicalCents int64  `json:"canonical_cents"`
	LedgerNetCents int64  `json:"ledger_net_cents"`
	CollectedCents int64  `json:"collected_cents"`
	FundedCents    int64  `json:"funded_cents"`
	Balanced       bool   `json:"balanced"`
}

// Reconcile cross-checks the ledger, the canonical projection and the
// presale balances over [fromDay, toDay] and flags any day where they
// disagree.
func (e *Engine) Reconcile(ctx context.Context, fromDay, toDay string) ([]ReconcileRow, error) {
	if _, err := model.ValidateDay(fromDay); err != nil {
		return nil, err
	}
	if _, err := model.ValidateDay(toDay); err != nil {
		return nil, err
	}
	canonical, err := e.store.CanonicalSumByDay(ctx, fromDay, toDay)
	if err != nil {
		return nil, err
	}
	totals, err := e.store.LedgerTotalsByDay(ctx, fromDay, toDay)
	if err != nil {
		return nil, err
	}
	collected, err := e.store.PresaleCollectedByDay(ctx, fromDay, toDay)
	if err != nil {
		return nil, err
	}

	days := make(map[string]struct{})
	for d := range canonical {
		days[d] = struct{}{}
	}
	for _, t := range totals {
		days[t.Day] = struct{}{}
	}
	for d := range collected {
		days[d] = struct{}{}
	}
	ledger := make(map[string]model.DayTotals, len(totals))
	for _, t := range totals {
		ledger[t.Day] = t
	}

	rows := make([]ReconcileRow, 0, len(days))
	for d := range days {
		lt := ledger[d]
		net := lt.GrossCents - lt.RefundedCents
		row := ReconcileRow{
			Day:            d,
			CanonicalCents: canonical[d],
			LedgerNetCents: net,
			CollectedCents: collected[d],
			FundedCents:    lt.FundedCents,
		}
		row.Balanced = row.CanonicalCents == net && row.CollectedCents == net-lt.FundedCents
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Day < rows[j].Day })
	return rows, nil
}

// SellerBreakdown reports per-seller collected money over a day range.
func (e *Engine) SellerBreakdown(ctx context.Context, fromDay, toDay string) ([]model.SellerTotals, error) {
	if _, err := model.ValidateDay(fromDay); err != nil {
		return nil, err
	}
	if _, err := model.ValidateDay(toDay); err != nil {
		return nil, err
	}
	return e.store.LedgerTotalsBySeller(ctx, fromDay, toDay)
}

// Occupancy reports seats sold against capacity per trip in a range.
func (e *Engine) Occupancy(ctx context.Context, fromDay, toDay string) ([]model.OccupancyRow, error) {
	if _, err := model.ValidateDay(fromDay); err != nil {
		return nil, err
	}
	if _, err := model.ValidateDay(toDay); err != nil {
		return nil, err
	}
	return e.store.Occupancy(ctx, fromDay, toDay)
}

// BoardingList returns the dispatcher's manifest for one trip.
func (e *Engine) BoardingList(ctx context.Context, slot model.SlotUID) ([]model.BoardingItem, error) {
	if _, err := e.store.Slot(ctx, slot); err != nil {
		return nil, err
	}
	return e.store.BoardingList(ctx, slot)
}

// SetDayOverride records the owner's manual figures for a day.  An
// override replaces the computed view for that day entirely; locked
// days reject further edits at the store.
func (e *Engine) SetDayOverride(ctx context.Context, ov *model.DayOverride) error {
	if _, err := model.ValidateDay(ov.BusinessDay); err != nil {
		return err
	}
	if ov.RevenueCents < 0 || ov.CashCents < 0 || ov.CardCents < 0 || ov.Tickets < 0 {
		return ErrInvalidAmount
	}
	return e.store.UpsertOverride(ctx, ov)
}

// DayOverrideFor returns the manual record for a day, or
// ErrOverrideMissing when the owner has not entered one.
func (e *Engine) DayOverrideFor(ctx context.Context, day string) (*model.DayOverride, error) {
	if _, err := model.ValidateDay(day); err != nil {
		return nil, err
	}
	ov, err := e.store.Override(ctx, day)
	if err != nil {
		return nil, err
	}
	if ov == nil {
		return nil, ErrOverrideMissing
	}
	return ov, nil
}

// LockDayOverride finalizes a day's override so it can no longer be
// edited.
func (e *Engine) LockDayOverride(ctx context.Context, day string) error {
	if _, err := model.ValidateDay(day); err != nil {
		return err
	}
	err := e.store.LockOverride(ctx, day)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOverrideMissing
	}
	return err
}

// PresaleDetail returns a sale together with its ledger history and
// active tickets.
type PresaleDetail struct {
	Presale *model.Presale      `json:"presale"`
	Tickets []model.Ticket      `json:"tickets"`
	Ledger  []model.LedgerEntry `json:"ledger"`
}

func (e *Engine) PresaleDetail(ctx context.Context, presaleID uint64) (*PresaleDetail, error) {
	p, err := e.store.Presale(ctx, presaleID)
	if err != nil {
		return nil, err
	}
	entries, err := e.store.PresaleLedger(ctx, presaleID)
	if err != nil {
		return nil, err
	}
	var tickets []model.Ticket
	err = e.store.InTx(ctx, func(tx StoreTx) error {
		tickets, err = tx.ActiveTickets(ctx, presaleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &PresaleDetail{Presale: p, Tickets: tickets, Ledger: entries}, nil
}
