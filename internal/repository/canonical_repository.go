package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// CanonicalRepo maintains the derived transaction projection used by
// reporting.  Rows are inserted alongside their ledger entries and are
// only ever voided or re-tagged afterwards, never deleted, so the
// table can always be checked row-for-row against the journal.
type CanonicalRepo struct {
	db *sql.DB
}

// NewCanonicalRepo returns a CanonicalRepo bound to the given database.
func NewCanonicalRepo(db *sql.DB) *CanonicalRepo { return &CanonicalRepo{db: db} }

// Insert writes one VALID projection row mirroring a ledger entry.
func (r *CanonicalRepo) Insert(ctx context.Context, q DBTX, c *model.CanonicalTransaction) error {
	const ins = `INSERT INTO canonical_transactions
	             (presale_id, ticket_id, business_day, amount_cents, method, status)
	             VALUES (?, ?, ?, ?, ?, ?)`
	var ticketID any
	if c.TicketID != nil {
		ticketID = *c.TicketID
	}
	res, err := q.ExecContext(ctx, ins,
		c.PresaleID, ticketID, c.BusinessDay, c.AmountCents, c.Method, c.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// VoidByPresale marks all VALID rows of a presale VOID.  Used when a
// refund-routed cancellation removes the money from the day's figures;
// the rows stay behind for audit.
func (r *CanonicalRepo) VoidByPresale(ctx context.Context, q DBTX, presaleID uint64) error {
	const upd = `UPDATE canonical_transactions SET status = 'VOID' WHERE presale_id = ? AND status = 'VALID'`
	_, err := q.ExecContext(ctx, upd, presaleID)
	return err
}

// RetagByPresale moves a presale's VALID rows to a new business day
// after a transfer.  The projection follows the trip; the journal does
// not move.
func (r *CanonicalRepo) RetagByPresale(ctx context.Context, q DBTX, presaleID uint64, businessDay string) error {
	const upd = `UPDATE canonical_transactions SET business_day = ? WHERE presale_id = ? AND status = 'VALID'`
	_, err := q.ExecContext(ctx, upd, businessDay, presaleID)
	return err
}

// ValidSumByDay sums VALID rows per business day over [from, to].
// This is the canonical leg of the three-way reconciliation.
func (r *CanonicalRepo) ValidSumByDay(ctx context.Context, q DBTX, from, to string) (map[string]int64, error) {
	const sel = `SELECT business_day, COALESCE(SUM(amount_cents), 0)
	             FROM canonical_transactions
	             WHERE status = 'VALID' AND business_day BETWEEN ? AND ?
	             GROUP BY business_day`
	rows, err := q.QueryContext(ctx, sel, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var day string
		var sum int64
		if err := rows.Scan(&day, &sum); err != nil {
			return nil, err
		}
		out[day] = sum
	}
	return out, rows.Err()
}
