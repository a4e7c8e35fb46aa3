// Package engine owns every compound operation of the sales system:
// presale creation, payment, cancellation, transfer, and the owner's
// read-side aggregation.  Each write runs inside one store transaction
// so inventory and financial state change atomically or not at all.
// The engine never touches a database handle directly; it is wired to
// a Store, which the MySQL repositories implement and tests replace
// with an in-memory double.
package engine

import (
	"context"

	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// StoreTx is the transactional surface the engine drives inside InTx.
// Locked reads (ForUpdate variants) pin rows for the remainder of the
// transaction; the store is responsible for serializing writers, the
// engine only sequences the calls.
type StoreTx interface {
	// Slot inventory.
	SlotForUpdate(ctx context.Context, uid model.SlotUID) (*model.Slot, error)
	ReserveSeats(ctx context.Context, uid model.SlotUID, seats int) error
	ReleaseSeats(ctx context.Context, uid model.SlotUID, seats int) error

	// Presales.
	InsertPresale(ctx context.Context, p *model.Presale) error
	PresaleForUpdate(ctx context.Context, id uint64) (*model.Presale, error)
	UpdatePresalePayment(ctx context.Context, p *model.Presale) error
	UpdatePresaleSeats(ctx context.Context, p *model.Presale) error
	UpdatePresaleSlot(ctx context.Context, id uint64, to model.SlotUID, businessDay string) error
	SetPresaleStatus(ctx context.Context, id uint64, status model.PresaleStatus) error

	// Tickets.
	InsertTickets(ctx context.Context, tickets []model.Ticket) error
	TicketForUpdate(ctx context.Context, id uint64) (*model.Ticket, error)
	ActiveTickets(ctx context.Context, presaleID uint64) ([]model.Ticket, error)
	RefundTicket(ctx context.Context, id uint64) error
	RefundAllTickets(ctx context.Context, presaleID uint64) (int, error)
	MoveTickets(ctx context.Context, presaleID uint64, to model.SlotUID) error
	MoveTicket(ctx context.Context, ticketID uint64, to model.SlotUID) error

	// Financial record.
	AppendLedger(ctx context.Context, e *model.LedgerEntry) error
	InsertCanonical(ctx context.Context, c *model.CanonicalTransaction) error
	VoidCanonical(ctx context.Context, presaleID uint64) error
	RetagCanonical(ctx context.Context, presaleID uint64, businessDay string) error

	// Staff.
	SellerByID(ctx context.Context, id uint64) (*model.Seller, error)
}

// Store is the engine's view of persistence.  InTx runs fn inside one
// database transaction, committing when fn returns nil and rolling
// back otherwise.  The remaining methods are plain reads used by the
// dispatcher and owner surfaces.
type Store interface {
	InTx(ctx context.Context, fn func(StoreTx) error) error

	Slot(ctx context.Context, uid model.SlotUID) (*model.Slot, error)
	SlotsByDate(ctx context.Context, tripDate string) ([]model.Slot, error)
	CreateSlot(ctx context.Context, s *model.Slot) error
	Presale(ctx context.Context, id uint64) (*model.Presale, error)
	PresaleLedger(ctx context.Context, presaleID uint64) ([]model.LedgerEntry, error)
	BoardingList(ctx context.Context, uid model.SlotUID) ([]model.BoardingItem, error)

	LedgerTotalsByDay(ctx context.Context, from, to string) ([]model.DayTotals, error)
	LedgerTotalsBySeller(ctx context.Context, from, to string) ([]model.SellerTotals, error)
	CanonicalSumByDay(ctx context.Context, from, to string) (map[string]int64, error)
	PresaleCollectedByDay(ctx context.Context, from, to string) (map[string]int64, error)
	TicketCountsByDay(ctx context.Context, from, to string) (map[string]int, error)
	Occupancy(ctx context.Context, from, to string) ([]model.OccupancyRow, error)

	Override(ctx context.Context, day string) (*model.DayOverride, error)
	Overrides(ctx context.Context, from, to string) (map[string]model.DayOverride, error)
	UpsertOverride(ctx context.Context, o *model.DayOverride) error
	LockOverride(ctx context.Context, day string) error
}
