package engine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/iliyamo/boat-trip-sales/internal/metrics"
	"github.com/iliyamo/boat-trip-sales/internal/model"
	"github.com/iliyamo/boat-trip-sales/internal/queue"
)

// Publisher delivers domain events after a successful commit.  A
// publish failure is logged and never fails the request; consumers
// re-fetch state rather than relying on delivery.
type Publisher interface {
	SaleRecorded(ctx context.Context, ev queue.SaleRecordedEvent)
	SaleCancelled(ctx context.Context, ev queue.SaleCancelledEvent)
}

// Engine orchestrates the sales system over a Store.
type Engine struct {
	store Store
	pub   Publisher
	now   func() time.Time
}

// New constructs an Engine.  pub may be nil when no broker is wired.
func New(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// WithPublisher attaches an event publisher.
func (e *Engine) WithPublisher(p Publisher) *Engine {
	e.pub = p
	return e
}

// WithClock overrides the engine clock; used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// businessDayFor buckets a sale under the slot's local trip date, or
// under the current local date when the slot carries no date context.
func (e *Engine) businessDayFor(slot *model.Slot) string {
	if slot != nil && slot.TripDate != "" {
		return slot.TripDate
	}
	return model.BusinessDay(e.now())
}

// splitPayment resolves an amount into its cash/card parts for a
// method.  MIXED requires the caller-supplied split to sum exactly to
// the amount.
func splitPayment(method model.PaymentMethod, amount, cash, card int64) (int64, int64, error) {
	switch method {
	case model.MethodCard:
		return 0, amount, nil
	case model.MethodMixed:
		if cash < 0 || card < 0 || cash+card != amount {
			return 0, 0, ErrMixedSplitMismatch
		}
		return cash, card, nil
	default:
		return amount, 0, nil
	}
}

// deriveMethod re-derives a presale's method tag from its accumulated
// cash/card split.
func deriveMethod(cash, card int64, fallback model.PaymentMethod) model.PaymentMethod {
	switch {
	case cash > 0 && card > 0:
		return model.MethodMixed
	case card > 0:
		return model.MethodCard
	case cash > 0:
		return model.MethodCash
	default:
		return fallback
	}
}

// CreatePresaleInput carries everything needed to record a sale.
type CreatePresaleInput struct {
	Slot            model.SlotUID
	CustomerName    string
	CustomerPhone   string
	Adults          int
	Teens           int
	Children        int
	PrepaymentCents int64
	Method          model.PaymentMethod
	CashCents       int64
	CardCents       int64
	SellerID        uint64 // explicit seller; must exist when non-zero
	ActorID         uint64 // acting seller, used when SellerID is zero
}

// CreatePresale records a sale: it reserves seats against the slot,
// creates the presale with one ticket per seat, and, when a prepayment
// was taken, appends the matching ledger and canonical rows.  The
// whole operation is one transaction; any failure after the
// reservation rolls the reservation back.
func (e *Engine) CreatePresale(ctx context.Context, in CreatePresaleInput) (*model.Presale, error) {
	name := strings.TrimSpace(in.CustomerName)
	phone := strings.TrimSpace(in.CustomerPhone)
	if name == "" || phone == "" {
		return nil, ErrCustomerRequired
	}
	if in.Adults < 0 || in.Teens < 0 || in.Children < 0 {
		return nil, ErrNoSeatsRequested
	}
	seats := in.Adults + in.Teens + in.Children
	if seats == 0 {
		return nil, ErrNoSeatsRequested
	}
	if in.PrepaymentCents < 0 {
		return nil, ErrInvalidAmount
	}
	method := in.Method
	if method == "" {
		method = model.MethodCash
	}

	var created *model.Presale
	err := e.store.InTx(ctx, func(tx StoreTx) error {
		sellerID := in.SellerID
		if sellerID == 0 {
			sellerID = in.ActorID
		} else if _, err := tx.SellerByID(ctx, sellerID); err != nil {
			return err
		}

		slot, err := tx.SlotForUpdate(ctx, in.Slot)
		if err != nil {
			return err
		}
		total := int64(in.Adults)*slot.PriceAdultCents +
			int64(in.Teens)*slot.PriceTeenCents +
			int64(in.Children)*slot.PriceChildCents
		if in.PrepaymentCents > total {
			return ErrPrepaymentExceedsTotal
		}
		cash, card, err := splitPayment(method, in.PrepaymentCents, in.CashCents, in.CardCents)
		if err != nil {
			return err
		}
		if err := tx.ReserveSeats(ctx, in.Slot, seats); err != nil {
			return err
		}

		day := e.businessDayFor(slot)
		p := &model.Presale{
			SlotKind:        slot.Kind,
			SlotID:          slot.ID,
			CustomerName:    name,
			CustomerPhone:   phone,
			NumberOfSeats:   seats,
			TotalPriceCents: total,
			PrepaymentCents: in.PrepaymentCents,
			Method:          method,
			CashCents:       cash,
			CardCents:       card,
			Status:          model.PresaleActive,
			SellerID:        sellerID,
			BusinessDay:     day,
		}
		if err := tx.InsertPresale(ctx, p); err != nil {
			return err
		}
		tickets, err := buildTickets(p, slot, in.Adults, in.Teens, in.Children)
		if err != nil {
			return err
		}
		if err := tx.InsertTickets(ctx, tickets); err != nil {
			return err
		}

		if in.PrepaymentCents > 0 {
			if err := e.recordPayment(ctx, tx, p, model.TypeSalePrepayment, in.PrepaymentCents, cash, card, method); err != nil {
				return err
			}
		}
		created = p
		return nil
	})
	if err != nil {
		metrics.PresaleRejected()
		return nil, err
	}
	metrics.PresaleCreated(seats, in.PrepaymentCents)
	e.publishSaleRecorded(ctx, created)
	return created, nil
}

// newTicketCode returns a 12-character random hex code printed on the
// ticket and read back at boarding.
func newTicketCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

func buildTickets(p *model.Presale, slot *model.Slot, adults, teens, children int) ([]model.Ticket, error) {
	mk := func(cat model.TicketCategory, n int, out []model.Ticket) ([]model.Ticket, error) {
		for i := 0; i < n; i++ {
			code, err := newTicketCode()
			if err != nil {
				return nil, err
			}
			out = append(out, model.Ticket{
				PresaleID:  p.ID,
				SlotKind:   slot.Kind,
				SlotID:     slot.ID,
				Code:       code,
				Category:   cat,
				PriceCents: slot.CategoryPrice(cat),
				Status:     model.TicketActive,
			})
		}
		return out, nil
	}
	out := make([]model.Ticket, 0, adults+teens+children)
	var err error
	if out, err = mk(model.CategoryAdult, adults, out); err != nil {
		return nil, err
	}
	if out, err = mk(model.CategoryTeen, teens, out); err != nil {
		return nil, err
	}
	return mk(model.CategoryChild, children, out)
}

// recordPayment appends the ledger entry and canonical row for one
// monetary event.  The amount is always the incremental movement.
func (e *Engine) recordPayment(ctx context.Context, tx StoreTx, p *model.Presale, typ model.LedgerType, amount, cash, card int64, method model.PaymentMethod) error {
	presaleID := p.ID
	sellerID := p.SellerID
	entry := &model.LedgerEntry{
		PresaleID:   &presaleID,
		SellerID:    &sellerID,
		BusinessDay: p.BusinessDay,
		Kind:        model.KindSellerShift,
		Type:        typ,
		AmountCents: amount,
		CashCents:   cash,
		CardCents:   card,
		Method:      method,
		Status:      model.LedgerPosted,
	}
	if err := tx.AppendLedger(ctx, entry); err != nil {
		return err
	}
	return tx.InsertCanonical(ctx, &model.CanonicalTransaction{
		PresaleID:   p.ID,
		BusinessDay: p.BusinessDay,
		AmountCents: amount,
		Method:      method,
		Status:      model.CanonicalValid,
	})
}

// TopUpPayment records a partial payment of additionalCents toward the
// outstanding remainder.  The ledger entry carries exactly the
// incremental amount, never the cumulative prepayment, so nothing is
// double counted.
func (e *Engine) TopUpPayment(ctx context.Context, presaleID uint64, additionalCents int64, method model.PaymentMethod, cash, card int64) (*model.Presale, error) {
	if additionalCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if method == "" {
		method = model.MethodCash
	}
	var updated *model.Presale
	err := e.store.InTx(ctx, func(tx StoreTx) error {
		p, err := tx.PresaleForUpdate(ctx, presaleID)
		if err != nil {
			return err
		}
		if p.Status != model.PresaleActive {
			return ErrPresaleNotOperable
		}
		if p.PrepaymentCents+additionalCents > p.TotalPriceCents {
			return ErrPrepaymentExceedsTotal
		}
		addCash, addCard, err := splitPayment(method, additionalCents, cash, card)
		if err != nil {
			return err
		}
		p.PrepaymentCents += additionalCents
		p.CashCents += addCash
		p.CardCents += addCard
		p.Method = deriveMethod(p.CashCents, p.CardCents, p.Method)
		if err := tx.UpdatePresalePayment(ctx, p); err != nil {
			return err
		}
		if err := e.recordPayment(ctx, tx, p, model.TypeSaleTopUp, additionalCents, addCash, addCard, method); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.PaymentRecorded(additionalCents)
	return updated, nil
}

// AcceptPayment completes payment to exactly the outstanding
// remainder.  For MIXED the supplied cash and card amounts must sum to
// the remainder; for CASH and CARD the full remainder is attributed to
// that method.
func (e *Engine) AcceptPayment(ctx context.Context, presaleID uint64, method model.PaymentMethod, cash, card int64) (*model.Presale, error) {
	if method == "" {
		return nil, ErrInvalidAmount
	}
	var (
		updated *model.Presale
		paid    int64
	)
	err := e.store.InTx(ctx, func(tx StoreTx) error {
		p, err := tx.PresaleForUpdate(ctx, presaleID)
		if err != nil {
			return err
		}
		if p.Status != model.PresaleActive {
			return ErrPresaleNotOperable
		}
		remaining := p.RemainingCents()
		if remaining <= 0 {
			return ErrNothingOutstanding
		}
		addCash, addCard, err := splitPayment(method, remaining, cash, card)
		if err != nil {
			return err
		}
		p.PrepaymentCents = p.TotalPriceCents
		p.CashCents += addCash
		p.CardCents += addCard
		p.Method = deriveMethod(p.CashCents, p.CardCents, method)
		if err := tx.UpdatePresalePayment(ctx, p); err != nil {
			return err
		}
		if err := e.recordPayment(ctx, tx, p, model.TypeSaleAccepted, remaining, addCash, addCard, method); err != nil {
			return err
		}
		updated, paid = p, remaining
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.PaymentRecorded(paid)
	return updated, nil
}

func (e *Engine) publishSaleRecorded(ctx context.Context, p *model.Presale) {
	if e.pub == nil || p == nil {
		return
	}
	e.pub.SaleRecorded(ctx, queue.SaleRecordedEvent{
		PresaleID:       p.ID,
		Slot:            p.SlotUID().String(),
		CustomerName:    p.CustomerName,
		Seats:           p.NumberOfSeats,
		TotalPriceCents: p.TotalPriceCents,
		PrepaymentCents: p.PrepaymentCents,
		BusinessDay:     p.BusinessDay,
		SellerID:        p.SellerID,
	})
}

func (e *Engine) publishSaleCancelled(ctx context.Context, p *model.Presale, refunded int64, decision model.RefundDecision) {
	if e.pub == nil || p == nil {
		return
	}
	e.pub.SaleCancelled(ctx, queue.SaleCancelledEvent{
		PresaleID:     p.ID,
		Slot:          p.SlotUID().String(),
		RefundedCents: refunded,
		Decision:      string(decision),
		BusinessDay:   p.BusinessDay,
	})
}
