package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// LedgerRepo is the append-mostly journal of money movements.  The only
// write is Append; there is no update or delete, so every aggregate can
// be traced back to the rows that produced it.
type LedgerRepo struct {
	db *sql.DB
}

// NewLedgerRepo returns a LedgerRepo bound to the given database.
func NewLedgerRepo(db *sql.DB) *LedgerRepo { return &LedgerRepo{db: db} }

// Append writes one POSTED journal row.  Exactly one row per monetary
// event: prepayment, top-up, acceptance, or cancellation reverse.  The
// amount is always the incremental movement, never a cumulative total.
func (r *LedgerRepo) Append(ctx context.Context, q DBTX, e *model.LedgerEntry) error {
	const ins = `INSERT INTO ledger_entries
	             (presale_id, seller_id, business_day, kind, type, amount_cents,
	              cash_cents, card_cents, method, decision, status)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var presaleID, sellerID any
	if e.PresaleID != nil {
		presaleID = *e.PresaleID
	}
	if e.SellerID != nil {
		sellerID = *e.SellerID
	}
	res, err := q.ExecContext(ctx, ins,
		presaleID, sellerID, e.BusinessDay, e.Kind, e.Type, e.AmountCents,
		e.CashCents, e.CardCents, e.Method, string(e.Decision), e.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// ListByPresale returns a presale's journal rows, oldest first.
func (r *LedgerRepo) ListByPresale(ctx context.Context, q DBTX, presaleID uint64) ([]model.LedgerEntry, error) {
	const sel = `SELECT id, presale_id, seller_id, business_day, kind, type,
	                    amount_cents, cash_cents, card_cents, method, decision, status, created_at
	             FROM ledger_entries WHERE presale_id = ? ORDER BY id`
	rows, err := q.QueryContext(ctx, sel, presaleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.LedgerEntry, 0)
	for rows.Next() {
		var e model.LedgerEntry
		var pid, sid sql.NullInt64
		var decision string
		if err := rows.Scan(&e.ID, &pid, &sid, &e.BusinessDay, &e.Kind, &e.Type,
			&e.AmountCents, &e.CashCents, &e.CardCents, &e.Method, &decision, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		if pid.Valid {
			v := uint64(pid.Int64)
			e.PresaleID = &v
		}
		if sid.Valid {
			v := uint64(sid.Int64)
			e.SellerID = &v
		}
		e.Decision = model.RefundDecision(decision)
		out = append(out, e)
	}
	return out, rows.Err()
}

// TotalsByDay aggregates the journal per business day over [from, to],
// filtering to status POSTED and kind SELLER_SHIFT.  Reverse rows are
// split out by their routing decision so callers subtract them
// explicitly rather than relying on sign conventions in storage.
func (r *LedgerRepo) TotalsByDay(ctx context.Context, q DBTX, from, to string) ([]model.DayTotals, error) {
	const sel = `SELECT business_day,
	                    COALESCE(SUM(CASE WHEN type <> 'SALE_CANCEL_REVERSE' THEN amount_cents ELSE 0 END), 0),
	                    COALESCE(SUM(CASE WHEN type <> 'SALE_CANCEL_REVERSE' THEN cash_cents ELSE 0 END), 0),
	                    COALESCE(SUM(CASE WHEN type <> 'SALE_CANCEL_REVERSE' THEN card_cents ELSE 0 END), 0),
	                    COALESCE(SUM(CASE WHEN type = 'SALE_CANCEL_REVERSE' AND decision = 'REFUND' THEN amount_cents ELSE 0 END), 0),
	                    COALESCE(SUM(CASE WHEN type = 'SALE_CANCEL_REVERSE' AND decision = 'REFUND' THEN cash_cents ELSE 0 END), 0),
	                    COALESCE(SUM(CASE WHEN type = 'SALE_CANCEL_REVERSE' AND decision = 'REFUND' THEN card_cents ELSE 0 END), 0),
	                    COALESCE(SUM(CASE WHEN type = 'SALE_CANCEL_REVERSE' AND decision = 'FUND' THEN amount_cents ELSE 0 END), 0)
	             FROM ledger_entries
	             WHERE status = 'POSTED' AND kind = 'SELLER_SHIFT' AND business_day BETWEEN ? AND ?
	             GROUP BY business_day
	             ORDER BY business_day`
	rows, err := q.QueryContext(ctx, sel, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.DayTotals, 0)
	for rows.Next() {
		var d model.DayTotals
		if err := rows.Scan(&d.Day, &d.GrossCents, &d.GrossCashCents, &d.GrossCardCents,
			&d.RefundedCents, &d.RefundedCash, &d.RefundedCard, &d.FundedCents); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// TotalsBySeller aggregates POSTED seller-shift rows per seller over
// [from, to], netting out refund-routed reverses.  Day-move transfer
// rows carry money but are not counted as sales.
func (r *LedgerRepo) TotalsBySeller(ctx context.Context, q DBTX, from, to string) ([]model.SellerTotals, error) {
	const sel = `SELECT l.seller_id, s.display_name,
	                    COALESCE(SUM(CASE WHEN l.type <> 'SALE_CANCEL_REVERSE' THEN l.amount_cents
	                                      WHEN l.decision = 'REFUND' THEN -l.amount_cents ELSE 0 END), 0),
	                    COALESCE(SUM(CASE WHEN l.type <> 'SALE_CANCEL_REVERSE' THEN l.cash_cents
	                                      WHEN l.decision = 'REFUND' THEN -l.cash_cents ELSE 0 END), 0),
	                    COALESCE(SUM(CASE WHEN l.type <> 'SALE_CANCEL_REVERSE' THEN l.card_cents
	                                      WHEN l.decision = 'REFUND' THEN -l.card_cents ELSE 0 END), 0),
	                    COALESCE(SUM(CASE WHEN l.type NOT IN ('SALE_CANCEL_REVERSE', 'SALE_TRANSFER') THEN 1 ELSE 0 END), 0)
	             FROM ledger_entries l
	             JOIN sellers s ON s.id = l.seller_id
	             WHERE l.status = 'POSTED' AND l.kind = 'SELLER_SHIFT'
	               AND l.seller_id IS NOT NULL AND l.business_day BETWEEN ? AND ?
	             GROUP BY l.seller_id, s.display_name
	             ORDER BY s.display_name`
	rows, err := q.QueryContext(ctx, sel, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.SellerTotals, 0)
	for rows.Next() {
		var t model.SellerTotals
		if err := rows.Scan(&t.SellerID, &t.DisplayName, &t.CollectedCents,
			&t.CashCents, &t.CardCents, &t.SaleCount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
