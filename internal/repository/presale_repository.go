package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// PresaleRepo persists presales.  Status transitions and payment
// mutations always go through explicit methods; there is no generic
// update that could bypass the payment-bound invariant.
type PresaleRepo struct {
	db *sql.DB
}

// NewPresaleRepo returns a PresaleRepo bound to the given database.
func NewPresaleRepo(db *sql.DB) *PresaleRepo { return &PresaleRepo{db: db} }

const presaleColumns = `id, slot_kind, slot_id, customer_name, customer_phone,
       number_of_seats, total_price_cents, prepayment_cents, method,
       cash_cents, card_cents, status, seller_id, business_day,
       created_at, updated_at`

func scanPresale(row interface{ Scan(...any) error }) (*model.Presale, error) {
	var p model.Presale
	err := row.Scan(
		&p.ID, &p.SlotKind, &p.SlotID, &p.CustomerName, &p.CustomerPhone,
		&p.NumberOfSeats, &p.TotalPriceCents, &p.PrepaymentCents, &p.Method,
		&p.CashCents, &p.CardCents, &p.Status, &p.SellerID, &p.BusinessDay,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a presale row and populates its generated id.  Runs
// inside the same transaction as the seat reservation and ticket batch.
func (r *PresaleRepo) Create(ctx context.Context, q DBTX, p *model.Presale) error {
	const ins = `INSERT INTO presales
	             (slot_kind, slot_id, customer_name, customer_phone, number_of_seats,
	              total_price_cents, prepayment_cents, method, cash_cents, card_cents,
	              status, seller_id, business_day)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := q.ExecContext(ctx, ins,
		p.SlotKind, p.SlotID, p.CustomerName, p.CustomerPhone, p.NumberOfSeats,
		p.TotalPriceCents, p.PrepaymentCents, p.Method, p.CashCents, p.CardCents,
		p.Status, p.SellerID, p.BusinessDay)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// Get loads a presale by id.
func (r *PresaleRepo) Get(ctx context.Context, q DBTX, id uint64) (*model.Presale, error) {
	const sel = `SELECT ` + presaleColumns + ` FROM presales WHERE id = ?`
	p, err := scanPresale(q.QueryRowContext(ctx, sel, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPresaleNotFound
	}
	return p, err
}

// ForUpdate loads a presale with a row lock.  Every payment mutation
// starts here so concurrent top-up and accept requests on the same
// presale are serialized by the database, and their sum can never
// exceed the total price.
func (r *PresaleRepo) ForUpdate(ctx context.Context, tx DBTX, id uint64) (*model.Presale, error) {
	const sel = `SELECT ` + presaleColumns + ` FROM presales WHERE id = ? FOR UPDATE`
	p, err := scanPresale(tx.QueryRowContext(ctx, sel, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPresaleNotFound
	}
	return p, err
}

// UpdatePayment writes the payment state of a locked presale row.
func (r *PresaleRepo) UpdatePayment(ctx context.Context, q DBTX, p *model.Presale) error {
	const upd = `UPDATE presales
	             SET prepayment_cents = ?, method = ?, cash_cents = ?, card_cents = ?
	             WHERE id = ?`
	_, err := q.ExecContext(ctx, upd, p.PrepaymentCents, p.Method, p.CashCents, p.CardCents, p.ID)
	return err
}

// UpdateSeats rewrites the aggregate seat count and total price after a
// ticket-level change (single-seat refund or partial transfer).
func (r *PresaleRepo) UpdateSeats(ctx context.Context, q DBTX, p *model.Presale) error {
	const upd = `UPDATE presales SET number_of_seats = ?, total_price_cents = ? WHERE id = ?`
	_, err := q.ExecContext(ctx, upd, p.NumberOfSeats, p.TotalPriceCents, p.ID)
	return err
}

// UpdateSlot re-points a presale at a new slot and business day after a
// transfer.  Payment columns are deliberately untouched: transfer never
// creates or destroys money.
func (r *PresaleRepo) UpdateSlot(ctx context.Context, q DBTX, id uint64, to model.SlotUID, businessDay string) error {
	const upd = `UPDATE presales SET slot_kind = ?, slot_id = ?, business_day = ? WHERE id = ?`
	_, err := q.ExecContext(ctx, upd, to.Kind, to.ID, businessDay, id)
	return err
}

// SetStatus records a status transition.
func (r *PresaleRepo) SetStatus(ctx context.Context, q DBTX, id uint64, status model.PresaleStatus) error {
	const upd = `UPDATE presales SET status = ? WHERE id = ?`
	_, err := q.ExecContext(ctx, upd, status, id)
	return err
}

// CollectedByDay sums the money collected on ACTIVE presales, bucketed
// by business day.  This is the presale leg of the three-way
// reconciliation; it must match the ledger's net POSTED seller-shift
// sum and the canonical VALID sum for every day.
func (r *PresaleRepo) CollectedByDay(ctx context.Context, q DBTX, from, to string) (map[string]int64, error) {
	const sel = `SELECT business_day, COALESCE(SUM(prepayment_cents), 0)
	             FROM presales
	             WHERE status = 'ACTIVE' AND business_day BETWEEN ? AND ?
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
