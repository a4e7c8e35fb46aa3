package engine

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// In-memory Store used by the engine tests.  It mirrors the MySQL
// store's observable behavior: ForUpdate reads hand out copies, writes
// go through the Update methods, and InTx rolls every mutation back
// when fn returns an error.

var (
	errSlotMissing    = errors.New("slot not found")
	errNoSeats        = errors.New("not enough seats remaining")
	errOverCapacity   = errors.New("requested seats exceed slot capacity")
	errPresaleMissing = errors.New("presale not found")
	errTicketMissing  = errors.New("ticket not found")
	errSellerMissing  = errors.New("seller not found")
	errOverrideLocked = errors.New("day override is locked")
)

type memStore struct {
	slots     map[model.SlotUID]*model.Slot
	presales  map[uint64]*model.Presale
	tickets   map[uint64]*model.Ticket
	ledger    []model.LedgerEntry
	canonical []model.CanonicalTransaction
	sellers   map[uint64]*model.Seller
	overrides map[string]*model.DayOverride

	nextPresaleID uint64
	nextTicketID  uint64
	nextRowID     uint64
}

func newMemStore() *memStore {
	return &memStore{
		slots:     make(map[model.SlotUID]*model.Slot),
		presales:  make(map[uint64]*model.Presale),
		tickets:   make(map[uint64]*model.Ticket),
		sellers:   make(map[uint64]*model.Seller),
		overrides: make(map[string]*model.DayOverride),
	}
}

func (s *memStore) addSlot(sl model.Slot) model.SlotUID {
	cp := sl
	s.slots[cp.UID()] = &cp
	return cp.UID()
}

func (s *memStore) addSeller(id uint64, name string) {
	s.sellers[id] = &model.Seller{ID: id, Username: name, DisplayName: name, Role: model.RoleSeller, IsActive: true}
}

// snapshot deep-copies the mutable state so InTx can restore it when
// the closure fails partway through.
func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for k, v := range s.slots {
		sl := *v
		cp.slots[k] = &sl
	}
	for k, v := range s.presales {
		p := *v
		cp.presales[k] = &p
	}
	for k, v := range s.tickets {
		t := *v
		cp.tickets[k] = &t
	}
	for k, v := range s.sellers {
		se := *v
		cp.sellers[k] = &se
	}
	for k, v := range s.overrides {
		o := *v
		cp.overrides[k] = &o
	}
	cp.ledger = append([]model.LedgerEntry(nil), s.ledger...)
	cp.canonical = append([]model.CanonicalTransaction(nil), s.canonical...)
	cp.nextPresaleID = s.nextPresaleID
	cp.nextTicketID = s.nextTicketID
	cp.nextRowID = s.nextRowID
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.slots = from.slots
	s.presales = from.presales
	s.tickets = from.tickets
	s.sellers = from.sellers
	s.overrides = from.overrides
	s.ledger = from.ledger
	s.canonical = from.canonical
	s.nextPresaleID = from.nextPresaleID
	s.nextTicketID = from.nextTicketID
	s.nextRowID = from.nextRowID
}

func (s *memStore) InTx(ctx context.Context, fn func(StoreTx) error) error {
	saved := s.snapshot()
	if err := fn((*memTx)(s)); err != nil {
		s.restore(saved)
		return err
	}
	return nil
}

// memTx exposes the transactional surface over the same state.
type memTx memStore

func (t *memTx) SlotForUpdate(ctx context.Context, uid model.SlotUID) (*model.Slot, error) {
	sl, ok := t.slots[uid]
	if !ok {
		return nil, errSlotMissing
	}
	cp := *sl
	return &cp, nil
}

func (t *memTx) ReserveSeats(ctx context.Context, uid model.SlotUID, seats int) error {
	sl, ok := t.slots[uid]
	if !ok {
		return errSlotMissing
	}
	if seats > sl.Capacity {
		return errOverCapacity
	}
	if seats > sl.SeatsRemaining {
		return errNoSeats
	}
	sl.SeatsRemaining -= seats
	return nil
}

func (t *memTx) ReleaseSeats(ctx context.Context, uid model.SlotUID, seats int) error {
	sl, ok := t.slots[uid]
	if !ok {
		return errSlotMissing
	}
	sl.SeatsRemaining += seats
	if sl.SeatsRemaining > sl.Capacity {
		sl.SeatsRemaining = sl.Capacity
	}
	return nil
}

func (t *memTx) InsertPresale(ctx context.Context, p *model.Presale) error {
	t.nextPresaleID++
	p.ID = t.nextPresaleID
	cp := *p
	t.presales[p.ID] = &cp
	return nil
}

func (t *memTx) PresaleForUpdate(ctx context.Context, id uint64) (*model.Presale, error) {
	p, ok := t.presales[id]
	if !ok {
		return nil, errPresaleMissing
	}
	cp := *p
	return &cp, nil
}

func (t *memTx) UpdatePresalePayment(ctx context.Context, p *model.Presale) error {
	stored, ok := t.presales[p.ID]
	if !ok {
		return errPresaleMissing
	}
	stored.PrepaymentCents = p.PrepaymentCents
	stored.CashCents = p.CashCents
	stored.CardCents = p.CardCents
	stored.Method = p.Method
	return nil
}

func (t *memTx) UpdatePresaleSeats(ctx context.Context, p *model.Presale) error {
	stored, ok := t.presales[p.ID]
	if !ok {
		return errPresaleMissing
	}
	stored.NumberOfSeats = p.NumberOfSeats
	stored.TotalPriceCents = p.TotalPriceCents
	return nil
}

func (t *memTx) UpdatePresaleSlot(ctx context.Context, id uint64, to model.SlotUID, businessDay string) error {
	stored, ok := t.presales[id]
	if !ok {
		return errPresaleMissing
	}
	stored.SlotKind = to.Kind
	stored.SlotID = to.ID
	stored.BusinessDay = businessDay
	return nil
}

func (t *memTx) SetPresaleStatus(ctx context.Context, id uint64, status model.PresaleStatus) error {
	stored, ok := t.presales[id]
	if !ok {
		return errPresaleMissing
	}
	stored.Status = status
	return nil
}

func (t *memTx) InsertTickets(ctx context.Context, tickets []model.Ticket) error {
	for i := range tickets {
		t.nextTicketID++
		tickets[i].ID = t.nextTicketID
		cp := tickets[i]
		t.tickets[cp.ID] = &cp
	}
	return nil
}

func (t *memTx) TicketForUpdate(ctx context.Context, id uint64) (*model.Ticket, error) {
	tk, ok := t.tickets[id]
	if !ok {
		return nil, errTicketMissing
	}
	cp := *tk
	return &cp, nil
}

func (t *memTx) ActiveTickets(ctx context.Context, presaleID uint64) ([]model.Ticket, error) {
	out := make([]model.Ticket, 0)
	for _, tk := range t.tickets {
		if tk.PresaleID == presaleID && tk.Status == model.TicketActive {
			out = append(out, *tk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) RefundTicket(ctx context.Context, id uint64) error {
	tk, ok := t.tickets[id]
	if !ok {
		return errTicketMissing
	}
	tk.Status = model.TicketRefunded
	return nil
}

func (t *memTx) RefundAllTickets(ctx context.Context, presaleID uint64) (int, error) {
	n := 0
	for _, tk := range t.tickets {
		if tk.PresaleID == presaleID && tk.Status == model.TicketActive {
			tk.Status = model.TicketRefunded
			n++
		}
	}
	return n, nil
}

func (t *memTx) MoveTickets(ctx context.Context, presaleID uint64, to model.SlotUID) error {
	for _, tk := range t.tickets {
		if tk.PresaleID == presaleID && tk.Status == model.TicketActive {
			tk.SlotKind = to.Kind
			tk.SlotID = to.ID
		}
	}
	return nil
}

func (t *memTx) MoveTicket(ctx context.Context, ticketID uint64, to model.SlotUID) error {
	tk, ok := t.tickets[ticketID]
	if !ok {
		return errTicketMissing
	}
	tk.SlotKind = to.Kind
	tk.SlotID = to.ID
	return nil
}

func (t *memTx) AppendLedger(ctx context.Context, e *model.LedgerEntry) error {
	t.nextRowID++
	e.ID = t.nextRowID
	t.ledger = append(t.ledger, *e)
	return nil
}

func (t *memTx) InsertCanonical(ctx context.Context, c *model.CanonicalTransaction) error {
	t.nextRowID++
	c.ID = t.nextRowID
	t.canonical = append(t.canonical, *c)
	return nil
}

func (t *memTx) VoidCanonical(ctx context.Context, presaleID uint64) error {
	for i := range t.canonical {
		if t.canonical[i].PresaleID == presaleID && t.canonical[i].Status == model.CanonicalValid {
			t.canonical[i].Status = model.CanonicalVoid
		}
	}
	return nil
}

func (t *memTx) RetagCanonical(ctx context.Context, presaleID uint64, businessDay string) error {
	for i := range t.canonical {
		if t.canonical[i].PresaleID == presaleID && t.canonical[i].Status == model.CanonicalValid {
			t.canonical[i].BusinessDay = businessDay
		}
	}
	return nil
}

func (t *memTx) SellerByID(ctx context.Context, id uint64) (*model.Seller, error) {
	se, ok := t.sellers[id]
	if !ok {
		return nil, errSellerMissing
	}
	cp := *se
	return &cp, nil
}

// Read-side methods.

func (s *memStore) Slot(ctx context.Context, uid model.SlotUID) (*model.Slot, error) {
	return (*memTx)(s).SlotForUpdate(ctx, uid)
}

func (s *memStore) SlotsByDate(ctx context.Context, tripDate string) ([]model.Slot, error) {
	out := make([]model.Slot, 0)
	for _, sl := range s.slots {
		if sl.TripDate == tripDate {
			out = append(out, *sl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (s *memStore) CreateSlot(ctx context.Context, sl *model.Slot) error {
	s.nextRowID++
	sl.ID = s.nextRowID
	cp := *sl
	s.slots[cp.UID()] = &cp
	return nil
}

func (s *memStore) Presale(ctx context.Context, id uint64) (*model.Presale, error) {
	return (*memTx)(s).PresaleForUpdate(ctx, id)
}

func (s *memStore) PresaleLedger(ctx context.Context, presaleID uint64) ([]model.LedgerEntry, error) {
	out := make([]model.LedgerEntry, 0)
	for _, e := range s.ledger {
		if e.PresaleID != nil && *e.PresaleID == presaleID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memStore) BoardingList(ctx context.Context, uid model.SlotUID) ([]model.BoardingItem, error) {
	out := make([]model.BoardingItem, 0)
	for _, tk := range s.tickets {
		if tk.SlotUID() != uid || tk.Status != model.TicketActive {
			continue
		}
		p := s.presales[tk.PresaleID]
		out = append(out, model.BoardingItem{
			TicketID:      tk.ID,
			Code:          tk.Code,
			Category:      tk.Category,
			PriceCents:    tk.PriceCents,
			PresaleID:     p.ID,
			CustomerName:  p.CustomerName,
			CustomerPhone: p.CustomerPhone,
			PaidInFull:    p.PrepaymentCents >= p.TotalPriceCents,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketID < out[j].TicketID })
	return out, nil
}

func inDayRange(day, from, to string) bool { return day >= from && day <= to }

func (s *memStore) LedgerTotalsByDay(ctx context.Context, from, to string) ([]model.DayTotals, error) {
	byDay := make(map[string]*model.DayTotals)
	for _, e := range s.ledger {
		if e.Status != model.LedgerPosted || e.Kind != model.KindSellerShift || !inDayRange(e.BusinessDay, from, to) {
			continue
		}
		d, ok := byDay[e.BusinessDay]
		if !ok {
			d = &model.DayTotals{Day: e.BusinessDay}
			byDay[e.BusinessDay] = d
		}
		if e.Type != model.TypeCancelReverse {
			d.GrossCents += e.AmountCents
			d.GrossCashCents += e.CashCents
			d.GrossCardCents += e.CardCents
		} else if e.Decision == model.DecisionRefund {
			d.RefundedCents += e.AmountCents
			d.RefundedCash += e.CashCents
			d.RefundedCard += e.CardCents
		} else if e.Decision == model.DecisionFund {
			d.FundedCents += e.AmountCents
		}
	}
	out := make([]model.DayTotals, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (s *memStore) LedgerTotalsBySeller(ctx context.Context, from, to string) ([]model.SellerTotals, error) {
	bySeller := make(map[uint64]*model.SellerTotals)
	for _, e := range s.ledger {
		if e.Status != model.LedgerPosted || e.Kind != model.KindSellerShift ||
			e.SellerID == nil || !inDayRange(e.BusinessDay, from, to) {
			continue
		}
		st, ok := bySeller[*e.SellerID]
		if !ok {
			name := ""
			if se, found := s.sellers[*e.SellerID]; found {
				name = se.DisplayName
			}
			st = &model.SellerTotals{SellerID: *e.SellerID, DisplayName: name}
			bySeller[*e.SellerID] = st
		}
		if e.Type != model.TypeCancelReverse {
			st.CollectedCents += e.AmountCents
			st.CashCents += e.CashCents
			st.CardCents += e.CardCents
			if e.Type != model.TypeSaleTransfer {
				st.SaleCount++
			}
		} else if e.Decision == model.DecisionRefund {
			st.CollectedCents -= e.AmountCents
			st.CashCents -= e.CashCents
			st.CardCents -= e.CardCents
		}
	}
	out := make([]model.SellerTotals, 0, len(bySeller))
	for _, st := range bySeller {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}

func (s *memStore) CanonicalSumByDay(ctx context.Context, from, to string) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, c := range s.canonical {
		if c.Status == model.CanonicalValid && inDayRange(c.BusinessDay, from, to) {
			out[c.BusinessDay] += c.AmountCents
		}
	}
	return out, nil
}

func (s *memStore) PresaleCollectedByDay(ctx context.Context, from, to string) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, p := range s.presales {
		if p.Status == model.PresaleActive && inDayRange(p.BusinessDay, from, to) {
			out[p.BusinessDay] += p.PrepaymentCents
		}
	}
	return out, nil
}

func (s *memStore) TicketCountsByDay(ctx context.Context, from, to string) (map[string]int, error) {
	out := make(map[string]int)
	for _, tk := range s.tickets {
		if tk.Status != model.TicketActive {
			continue
		}
		p, ok := s.presales[tk.PresaleID]
		if ok && inDayRange(p.BusinessDay, from, to) {
			out[p.BusinessDay]++
		}
	}
	return out, nil
}

func (s *memStore) Occupancy(ctx context.Context, from, to string) ([]model.OccupancyRow, error) {
	out := make([]model.OccupancyRow, 0)
	for _, sl := range s.slots {
		if !inDayRange(sl.TripDate, from, to) {
			continue
		}
		out = append(out, model.OccupancyRow{
			Slot:      sl.UID(),
			BoatName:  sl.BoatName,
			TripDate:  sl.TripDate,
			StartTime: sl.StartTime,
			Capacity:  sl.Capacity,
			SeatsSold: sl.Capacity - sl.SeatsRemaining,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TripDate != out[j].TripDate {
			return out[i].TripDate < out[j].TripDate
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (s *memStore) Override(ctx context.Context, day string) (*model.DayOverride, error) {
	o, ok := s.overrides[day]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (s *memStore) Overrides(ctx context.Context, from, to string) (map[string]model.DayOverride, error) {
	out := make(map[string]model.DayOverride)
	for day, o := range s.overrides {
		if inDayRange(day, from, to) {
			out[day] = *o
		}
	}
	return out, nil
}

func (s *memStore) UpsertOverride(ctx context.Context, o *model.DayOverride) error {
	if existing, ok := s.overrides[o.BusinessDay]; ok && existing.Locked() {
		return errOverrideLocked
	}
	cp := *o
	s.overrides[o.BusinessDay] = &cp
	return nil
}

func (s *memStore) LockOverride(ctx context.Context, day string) error {
	o, ok := s.overrides[day]
	if !ok {
		return sql.ErrNoRows
	}
	if o.Locked() {
		return errOverrideLocked
	}
	now := testClock()
	o.LockedAt = &now
	return nil
}

var _ Store = (*memStore)(nil)
var _ StoreTx = (*memTx)(nil)

// testClock is the fixed instant every test engine runs at.
func testClock() time.Time {
	return time.Date(2025, 7, 14, 10, 30, 0, 0, time.UTC)
}
