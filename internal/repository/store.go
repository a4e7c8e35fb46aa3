package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/boat-trip-sales/internal/engine"
	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// Store bundles the MySQL repositories behind the engine's Store
// interface.  Plain reads run on the pool; InTx hands the engine a
// storeTx bound to one *sql.Tx so every repository call inside shares
// the transaction.
type Store struct {
	db        *sql.DB
	slots     *SlotRepo
	presales  *PresaleRepo
	tickets   *TicketRepo
	ledger    *LedgerRepo
	canonical *CanonicalRepo
	sellers   *SellerRepo
	overrides *OverrideRepo
}

// NewStore wires all repositories over one connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		slots:     NewSlotRepo(db),
		presales:  NewPresaleRepo(db),
		tickets:   NewTicketRepo(db),
		ledger:    NewLedgerRepo(db),
		canonical: NewCanonicalRepo(db),
		sellers:   NewSellerRepo(db),
		overrides: NewOverrideRepo(db),
	}
}

// DB exposes the underlying pool for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Sellers exposes the seller repository for the auth handlers, which
// operate outside the engine.
func (s *Store) Sellers() *SellerRepo { return s.sellers }

// InTx runs fn inside one transaction.  Commit happens only when fn
// returns nil; any error or panic rolls everything back.
func (s *Store) InTx(ctx context.Context, fn func(engine.StoreTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&storeTx{s: s, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

func (s *Store) Slot(ctx context.Context, uid model.SlotUID) (*model.Slot, error) {
	return s.slots.Lookup(ctx, s.db, uid)
}

func (s *Store) SlotsByDate(ctx context.Context, tripDate string) ([]model.Slot, error) {
	return s.slots.ListByDate(ctx, s.db, tripDate)
}

func (s *Store) CreateSlot(ctx context.Context, sl *model.Slot) error {
	return s.slots.Create(ctx, s.db, sl)
}

func (s *Store) Presale(ctx context.Context, id uint64) (*model.Presale, error) {
	return s.presales.Get(ctx, s.db, id)
}

func (s *Store) PresaleLedger(ctx context.Context, presaleID uint64) ([]model.LedgerEntry, error) {
	return s.ledger.ListByPresale(ctx, s.db, presaleID)
}

func (s *Store) BoardingList(ctx context.Context, uid model.SlotUID) ([]model.BoardingItem, error) {
	return s.tickets.BoardingBySlot(ctx, s.db, uid)
}

func (s *Store) LedgerTotalsByDay(ctx context.Context, from, to string) ([]model.DayTotals, error) {
	return s.ledger.TotalsByDay(ctx, s.db, from, to)
}

func (s *Store) LedgerTotalsBySeller(ctx context.Context, from, to string) ([]model.SellerTotals, error) {
	return s.ledger.TotalsBySeller(ctx, s.db, from, to)
}

func (s *Store) CanonicalSumByDay(ctx context.Context, from, to string) (map[string]int64, error) {
	return s.canonical.ValidSumByDay(ctx, s.db, from, to)
}

func (s *Store) PresaleCollectedByDay(ctx context.Context, from, to string) (map[string]int64, error) {
	return s.presales.CollectedByDay(ctx, s.db, from, to)
}

func (s *Store) TicketCountsByDay(ctx context.Context, from, to string) (map[string]int, error) {
	return s.tickets.CountActiveByDay(ctx, s.db, from, to)
}

func (s *Store) Occupancy(ctx context.Context, from, to string) ([]model.OccupancyRow, error) {
	return s.slots.OccupancyRange(ctx, s.db, from, to)
}

func (s *Store) Override(ctx context.Context, day string) (*model.DayOverride, error) {
	return s.overrides.Get(ctx, s.db, day)
}

func (s *Store) Overrides(ctx context.Context, from, to string) (map[string]model.DayOverride, error) {
	return s.overrides.GetRange(ctx, s.db, from, to)
}

func (s *Store) UpsertOverride(ctx context.Context, o *model.DayOverride) error {
	return s.overrides.Upsert(ctx, s.db, o)
}

func (s *Store) LockOverride(ctx context.Context, day string) error {
	return s.overrides.Lock(ctx, s.db, day)
}

// storeTx adapts the repositories to engine.StoreTx over one open
// transaction.
type storeTx struct {
	s  *Store
	tx *sql.Tx
}

func (t *storeTx) SlotForUpdate(ctx context.Context, uid model.SlotUID) (*model.Slot, error) {
	return t.s.slots.ForUpdate(ctx, t.tx, uid)
}

func (t *storeTx) ReserveSeats(ctx context.Context, uid model.SlotUID, seats int) error {
	return t.s.slots.Reserve(ctx, t.tx, uid, seats)
}

func (t *storeTx) ReleaseSeats(ctx context.Context, uid model.SlotUID, seats int) error {
	return t.s.slots.Release(ctx, t.tx, uid, seats)
}

func (t *storeTx) InsertPresale(ctx context.Context, p *model.Presale) error {
	return t.s.presales.Create(ctx, t.tx, p)
}

func (t *storeTx) PresaleForUpdate(ctx context.Context, id uint64) (*model.Presale, error) {
	return t.s.presales.ForUpdate(ctx, t.tx, id)
}

func (t *storeTx) UpdatePresalePayment(ctx context.Context, p *model.Presale) error {
	return t.s.presales.UpdatePayment(ctx, t.tx, p)
}

func (t *storeTx) UpdatePresaleSeats(ctx context.Context, p *model.Presale) error {
	return t.s.presales.UpdateSeats(ctx, t.tx, p)
}

func (t *storeTx) UpdatePresaleSlot(ctx context.Context, id uint64, to model.SlotUID, businessDay string) error {
	return t.s.presales.UpdateSlot(ctx, t.tx, id, to, businessDay)
}

func (t *storeTx) SetPresaleStatus(ctx context.Context, id uint64, status model.PresaleStatus) error {
	return t.s.presales.SetStatus(ctx, t.tx, id, status)
}

func (t *storeTx) InsertTickets(ctx context.Context, tickets []model.Ticket) error {
	return t.s.tickets.CreateBatch(ctx, t.tx, tickets)
}

func (t *storeTx) TicketForUpdate(ctx context.Context, id uint64) (*model.Ticket, error) {
	return t.s.tickets.ForUpdate(ctx, t.tx, id)
}

func (t *storeTx) ActiveTickets(ctx context.Context, presaleID uint64) ([]model.Ticket, error) {
	return t.s.tickets.ActiveByPresale(ctx, t.tx, presaleID)
}

func (t *storeTx) RefundTicket(ctx context.Context, id uint64) error {
	return t.s.tickets.MarkRefunded(ctx, t.tx, id)
}

func (t *storeTx) RefundAllTickets(ctx context.Context, presaleID uint64) (int, error) {
	return t.s.tickets.RefundAllByPresale(ctx, t.tx, presaleID)
}

func (t *storeTx) MoveTickets(ctx context.Context, presaleID uint64, to model.SlotUID) error {
	return t.s.tickets.MoveByPresale(ctx, t.tx, presaleID, to)
}

func (t *storeTx) MoveTicket(ctx context.Context, ticketID uint64, to model.SlotUID) error {
	return t.s.tickets.MoveOne(ctx, t.tx, ticketID, to)
}

func (t *storeTx) AppendLedger(ctx context.Context, e *model.LedgerEntry) error {
	return t.s.ledger.Append(ctx, t.tx, e)
}

func (t *storeTx) InsertCanonical(ctx context.Context, c *model.CanonicalTransaction) error {
	return t.s.canonical.Insert(ctx, t.tx, c)
}

func (t *storeTx) VoidCanonical(ctx context.Context, presaleID uint64) error {
	return t.s.canonical.VoidByPresale(ctx, t.tx, presaleID)
}

func (t *storeTx) RetagCanonical(ctx context.Context, presaleID uint64, businessDay string) error {
	return t.s.canonical.RetagByPresale(ctx, t.tx, presaleID, businessDay)
}

func (t *storeTx) SellerByID(ctx context.Context, id uint64) (*model.Seller, error) {
	return t.s.sellers.GetByID(ctx, t.tx, id)
}

var _ engine.Store = (*Store)(nil)
