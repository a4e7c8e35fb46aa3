package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// TicketRepo persists tickets, the individually cancellable seat units
// of a presale.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, presale_id, slot_kind, slot_id, code, category,
       price_cents, status, created_at`

func scanTicket(row interface{ Scan(...any) error }) (*model.Ticket, error) {
	var t model.Ticket
	err := row.Scan(
		&t.ID, &t.PresaleID, &t.SlotKind, &t.SlotID, &t.Code, &t.Category,
		&t.PriceCents, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateBatch inserts all tickets of a presale in a single statement.
// Runs inside the presale-creation transaction.  Passing an empty
// slice has no effect and returns nil.
func (r *TicketRepo) CreateBatch(ctx context.Context, q DBTX, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (presale_id, slot_kind, slot_id, code, category, price_cents, status) VALUES `
	args := make([]any, 0, len(tickets)*7)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, t.PresaleID, t.SlotKind, t.SlotID, t.Code, t.Category, t.PriceCents, t.Status)
	}
	_, err := q.ExecContext(ctx, query, args...)
	return err
}

// Get loads a ticket by id.
func (r *TicketRepo) Get(ctx context.Context, q DBTX, id uint64) (*model.Ticket, error) {
	const sel = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	t, err := scanTicket(q.QueryRowContext(ctx, sel, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	return t, err
}

// ForUpdate loads a ticket with a row lock for refund or transfer.
func (r *TicketRepo) ForUpdate(ctx context.Context, tx DBTX, id uint64) (*model.Ticket, error) {
	const sel = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ? FOR UPDATE`
	t, err := scanTicket(tx.QueryRowContext(ctx, sel, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	return t, err
}

// ActiveByPresale returns the remaining ACTIVE tickets of a presale,
// oldest first.  The presale's seat count and total price are always
// recomputed from this set after a ticket-level change.
func (r *TicketRepo) ActiveByPresale(ctx context.Context, q DBTX, presaleID uint64) ([]model.Ticket, error) {
	const sel = `SELECT ` + ticketColumns + ` FROM tickets
	             WHERE presale_id = ? AND status = 'ACTIVE'
	             ORDER BY id`
	rows, err := q.QueryContext(ctx, sel, presaleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// MarkRefunded transitions one ACTIVE ticket to REFUNDED.  Zero rows
// affected means the ticket was already refunded (or never existed);
// the caller must treat that as a failed transition, never as a second
// seat release.
func (r *TicketRepo) MarkRefunded(ctx context.Context, q DBTX, id uint64) error {
	const upd = `UPDATE tickets SET status = 'REFUNDED' WHERE id = ? AND status = 'ACTIVE'`
	res, err := q.ExecContext(ctx, upd, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// RefundAllByPresale transitions every ACTIVE ticket of a presale to
// REFUNDED and returns how many were transitioned.
func (r *TicketRepo) RefundAllByPresale(ctx context.Context, q DBTX, presaleID uint64) (int, error) {
	const upd = `UPDATE tickets SET status = 'REFUNDED' WHERE presale_id = ? AND status = 'ACTIVE'`
	res, err := q.ExecContext(ctx, upd, presaleID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// MoveByPresale re-points all ACTIVE tickets of a presale at a new slot.
func (r *TicketRepo) MoveByPresale(ctx context.Context, q DBTX, presaleID uint64, to model.SlotUID) error {
	const upd = `UPDATE tickets SET slot_kind = ?, slot_id = ? WHERE presale_id = ? AND status = 'ACTIVE'`
	_, err := q.ExecContext(ctx, upd, to.Kind, to.ID, presaleID)
	return err
}

// MoveOne re-points a single ticket at a new slot (partial transfer).
func (r *TicketRepo) MoveOne(ctx context.Context, q DBTX, ticketID uint64, to model.SlotUID) error {
	const upd = `UPDATE tickets SET slot_kind = ?, slot_id = ? WHERE id = ?`
	_, err := q.ExecContext(ctx, upd, to.Kind, to.ID, ticketID)
	return err
}

// BoardingBySlot returns the ACTIVE tickets for a slot together with
// the customer details the dispatcher checks at the gangway.  REFUNDED
// tickets are excluded.
func (r *TicketRepo) BoardingBySlot(ctx context.Context, q DBTX, uid model.SlotUID) ([]model.BoardingItem, error) {
	const sel = `SELECT t.id, t.code, t.category, t.price_cents,
	                    p.id, p.customer_name, p.customer_phone,
	                    p.prepayment_cents >= p.total_price_cents
	             FROM tickets t
	             JOIN presales p ON p.id = t.presale_id
	             WHERE t.slot_kind = ? AND t.slot_id = ? AND t.status = 'ACTIVE'
	             ORDER BY p.customer_name, t.id`
	rows, err := q.QueryContext(ctx, sel, uid.Kind, uid.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BoardingItem, 0)
	for rows.Next() {
		var it model.BoardingItem
		if err := rows.Scan(&it.TicketID, &it.Code, &it.Category, &it.PriceCents,
			&it.PresaleID, &it.CustomerName, &it.CustomerPhone, &it.PaidInFull); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// CountActiveByDay counts ACTIVE tickets bucketed by the owning
// presale's business day, for owner summaries.
func (r *TicketRepo) CountActiveByDay(ctx context.Context, q DBTX, from, to string) (map[string]int, error) {
	const sel = `SELECT p.business_day, COUNT(*)
	             FROM tickets t
	             JOIN presales p ON p.id = t.presale_id
	             WHERE t.status = 'ACTIVE' AND p.business_day BETWEEN ? AND ?
	             GROUP BY p.business_day`
	rows, err := q.QueryContext(ctx, sel, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		out[day] = n
	}
	return out, rows.Err()
}
