package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// SlotRepo is the inventory store for trip slots.  Reserve and Release
// are the only mutations of seats_remaining anywhere in the system;
// both are single conditional UPDATE statements so the database itself
// serializes concurrent reservations without application locks.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying pool so callers can open transactions.
func (r *SlotRepo) DB() *sql.DB { return r.db }

const slotColumns = `id, kind, boat_name, trip_date, start_time, duration_min,
       capacity, seats_remaining, price_adult_cents, price_teen_cents,
       price_child_cents, is_active, created_at, updated_at`

func scanSlot(row interface{ Scan(...any) error }) (*model.Slot, error) {
	var s model.Slot
	err := row.Scan(
		&s.ID, &s.Kind, &s.BoatName, &s.TripDate, &s.StartTime, &s.DurationMin,
		&s.Capacity, &s.SeatsRemaining, &s.PriceAdultCents, &s.PriceTeenCents,
		&s.PriceChildCents, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Lookup resolves a composite uid to an active slot row.  It returns
// ErrSlotNotFound when the slot does not exist or is inactive.
func (r *SlotRepo) Lookup(ctx context.Context, q DBTX, uid model.SlotUID) (*model.Slot, error) {
	const sel = `SELECT ` + slotColumns + ` FROM slots WHERE kind = ? AND id = ? AND is_active = 1`
	s, err := scanSlot(q.QueryRowContext(ctx, sel, uid.Kind, uid.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	return s, err
}

// ForUpdate loads a slot row with a row lock.  Must be called inside a
// transaction; used by transfer to pin both slots while seats move.
func (r *SlotRepo) ForUpdate(ctx context.Context, tx DBTX, uid model.SlotUID) (*model.Slot, error) {
	const sel = `SELECT ` + slotColumns + ` FROM slots WHERE kind = ? AND id = ? AND is_active = 1 FOR UPDATE`
	s, err := scanSlot(tx.QueryRowContext(ctx, sel, uid.Kind, uid.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	return s, err
}

// Reserve atomically checks and decrements seats_remaining.  The guard
// lives in the WHERE clause, so under contention for the last seats at
// most one of N concurrent statements matches the row; the rest see
// zero rows affected and fail with ErrNoSeats.  Requests that exceed
// total capacity fail with ErrSeatCapacityExceeded regardless of the
// current remainder.  Callers run this inside the same transaction as
// the presale/ticket writes so a crash never strands inventory.
func (r *SlotRepo) Reserve(ctx context.Context, q DBTX, uid model.SlotUID, seats int) error {
	if seats <= 0 {
		return ErrNoSeats
	}
	const upd = `UPDATE slots
	             SET seats_remaining = seats_remaining - ?
	             WHERE kind = ? AND id = ? AND is_active = 1 AND seats_remaining >= ?`
	res, err := q.ExecContext(ctx, upd, seats, uid.Kind, uid.ID, seats)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// Nothing matched: classify the failure for the caller.
	slot, err := r.Lookup(ctx, q, uid)
	if err != nil {
		return err
	}
	if seats > slot.Capacity {
		return ErrSeatCapacityExceeded
	}
	return ErrNoSeats
}

// Release increments seats_remaining, clamped at capacity so a
// double-release bug can never push the remainder past the total.
func (r *SlotRepo) Release(ctx context.Context, q DBTX, uid model.SlotUID, seats int) error {
	if seats <= 0 {
		return nil
	}
	const upd = `UPDATE slots
	             SET seats_remaining = LEAST(capacity, seats_remaining + ?)
	             WHERE kind = ? AND id = ?`
	res, err := q.ExecContext(ctx, upd, seats, uid.Kind, uid.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// Create inserts a manual slot.  Generated slots are written by the
// external scheduler; this path only ever sees kind MANUAL.
func (r *SlotRepo) Create(ctx context.Context, q DBTX, s *model.Slot) error {
	const ins = `INSERT INTO slots
	             (kind, boat_name, trip_date, start_time, duration_min, capacity,
	              seats_remaining, price_adult_cents, price_teen_cents, price_child_cents, is_active)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`
	res, err := q.ExecContext(ctx, ins,
		s.Kind, s.BoatName, s.TripDate, s.StartTime, s.DurationMin, s.Capacity,
		s.Capacity, s.PriceAdultCents, s.PriceTeenCents, s.PriceChildCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.SeatsRemaining = s.Capacity
	s.IsActive = true
	return nil
}

// ListByDate returns all active slots for a trip date, ordered by
// departure time, for the seller's sale screen.
func (r *SlotRepo) ListByDate(ctx context.Context, q DBTX, tripDate string) ([]model.Slot, error) {
	const sel = `SELECT ` + slotColumns + ` FROM slots
	             WHERE trip_date = ? AND is_active = 1
	             ORDER BY start_time, boat_name`
	rows, err := q.QueryContext(ctx, sel, tripDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Slot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// OccupancyRange returns fill levels for all active slots whose trip
// date falls inside [from, to].
func (r *SlotRepo) OccupancyRange(ctx context.Context, q DBTX, from, to string) ([]model.OccupancyRow, error) {
	const sel = `SELECT kind, id, boat_name, trip_date, start_time, capacity, capacity - seats_remaining
	             FROM slots
	             WHERE trip_date BETWEEN ? AND ? AND is_active = 1
	             ORDER BY trip_date, start_time, boat_name`
	rows, err := q.QueryContext(ctx, sel, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.OccupancyRow, 0)
	for rows.Next() {
		var o model.OccupancyRow
		if err := rows.Scan(&o.Slot.Kind, &o.Slot.ID, &o.BoatName, &o.TripDate,
			&o.StartTime, &o.Capacity, &o.SeatsSold); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
