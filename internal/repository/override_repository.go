package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// OverrideRepo persists the owner's manual day records.  An override,
// when present, fully supersedes the computed aggregates for its day;
// once locked it can never change again.
type OverrideRepo struct {
	db *sql.DB
}

// NewOverrideRepo returns an OverrideRepo bound to the given database.
func NewOverrideRepo(db *sql.DB) *OverrideRepo { return &OverrideRepo{db: db} }

// Get loads the override for one business day, or nil when none exists.
func (r *OverrideRepo) Get(ctx context.Context, q DBTX, day string) (*model.DayOverride, error) {
	const sel = `SELECT business_day, revenue_cents, cash_cents, card_cents, tickets, note,
	                    locked_at, created_at, updated_at
	             FROM day_overrides WHERE business_day = ?`
	var o model.DayOverride
	var locked sql.NullTime
	err := q.QueryRowContext(ctx, sel, day).Scan(
		&o.BusinessDay, &o.RevenueCents, &o.CashCents, &o.CardCents, &o.Tickets, &o.Note,
		&locked, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if locked.Valid {
		t := locked.Time
		o.LockedAt = &t
	}
	return &o, nil
}

// GetRange loads all overrides with business_day in [from, to], keyed
// by day.
func (r *OverrideRepo) GetRange(ctx context.Context, q DBTX, from, to string) (map[string]model.DayOverride, error) {
	const sel = `SELECT business_day, revenue_cents, cash_cents, card_cents, tickets, note,
	                    locked_at, created_at, updated_at
	             FROM day_overrides WHERE business_day BETWEEN ? AND ?`
	rows, err := q.QueryContext(ctx, sel, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]model.DayOverride)
	for rows.Next() {
		var o model.DayOverride
		var locked sql.NullTime
		if err := rows.Scan(&o.BusinessDay, &o.RevenueCents, &o.CashCents, &o.CardCents,
			&o.Tickets, &o.Note, &locked, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if locked.Valid {
			t := locked.Time
			o.LockedAt = &t
		}
		out[o.BusinessDay] = o
	}
	return out, rows.Err()
}

// Upsert writes the override for a day.  A locked override rejects the
// write with ErrOverrideLocked.
func (r *OverrideRepo) Upsert(ctx context.Context, q DBTX, o *model.DayOverride) error {
	existing, err := r.Get(ctx, q, o.BusinessDay)
	if err != nil {
		return err
	}
	if existing != nil && existing.Locked() {
		return ErrOverrideLocked
	}
	const ins = `INSERT INTO day_overrides (business_day, revenue_cents, cash_cents, card_cents, tickets, note)
	             VALUES (?, ?, ?, ?, ?, ?)
	             ON DUPLICATE KEY UPDATE revenue_cents = VALUES(revenue_cents),
	                                     cash_cents = VALUES(cash_cents),
	                                     card_cents = VALUES(card_cents),
	                                     tickets = VALUES(tickets),
	                                     note = VALUES(note)`
	_, err = q.ExecContext(ctx, ins, o.BusinessDay, o.RevenueCents, o.CashCents, o.CardCents, o.Tickets, o.Note)
	return err
}

// Lock finalizes an override.  An already-locked day is reported as
// ErrOverrideLocked; a day with no override as sql.ErrNoRows.
func (r *OverrideRepo) Lock(ctx context.Context, q DBTX, day string) error {
	const upd = `UPDATE day_overrides SET locked_at = NOW() WHERE business_day = ? AND locked_at IS NULL`
	res, err := q.ExecContext(ctx, upd, day)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		existing, err := r.Get(ctx, q, day)
		if err != nil {
			return err
		}
		if existing == nil {
			return sql.ErrNoRows
		}
		return ErrOverrideLocked
	}
	return nil
}
