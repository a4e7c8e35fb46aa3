package engine

import (
	"context"

	"github.com/iliyamo/boat-trip-sales/internal/metrics"
	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// TransferResult reports a completed move between trips.
type TransferResult struct {
	Presale *model.Presale `json:"presale"`
	FromDay string         `json:"from_day"`
	ToDay   string         `json:"to_day"`
	Seats   int            `json:"seats"`
}

// moveLedgerDay moves a presale's collected money between business
// days without editing history: a reverse row closes out the source
// day and a paired transfer row books the same amounts onto the
// target day.  The REFUND routing makes day aggregates subtract the
// reverse; the transfer row restores the money where the trip now
// sails, so every day reconciles on both sides of the move.
func moveLedgerDay(ctx context.Context, tx StoreTx, p *model.Presale, fromDay string) error {
	presaleID := p.ID
	sellerID := p.SellerID
	out := &model.LedgerEntry{
		PresaleID:   &presaleID,
		SellerID:    &sellerID,
		BusinessDay: fromDay,
		Kind:        model.KindSellerShift,
		Type:        model.TypeCancelReverse,
		AmountCents: p.PrepaymentCents,
		CashCents:   p.CashCents,
		CardCents:   p.CardCents,
		Method:      p.Method,
		Decision:    model.DecisionRefund,
		Status:      model.LedgerPosted,
	}
	if err := tx.AppendLedger(ctx, out); err != nil {
		return err
	}
	in := &model.LedgerEntry{
		PresaleID:   &presaleID,
		SellerID:    &sellerID,
		BusinessDay: p.BusinessDay,
		Kind:        model.KindSellerShift,
		Type:        model.TypeSaleTransfer,
		AmountCents: p.PrepaymentCents,
		CashCents:   p.CashCents,
		CardCents:   p.CardCents,
		Method:      p.Method,
		Status:      model.LedgerPosted,
	}
	return tx.AppendLedger(ctx, in)
}

// TransferPresale moves a whole sale to another trip.  Seats are
// reserved on the target before the tickets' current slots release
// them, so a failure leaves the original booking intact.  The agreed
// price is unchanged; a cross-day move re-tags the canonical
// projection and re-books the collected money onto the target day so
// all three financial records follow the trip that actually sails.
func (e *Engine) TransferPresale(ctx context.Context, presaleID uint64, target model.SlotUID) (*TransferResult, error) {
	var res *TransferResult
	err := e.store.InTx(ctx, func(tx StoreTx) error {
		p, err := tx.PresaleForUpdate(ctx, presaleID)
		if err != nil {
			return err
		}
		if p.Status != model.PresaleActive {
			return ErrPresaleNotOperable
		}
		source := p.SlotUID()
		if source == target {
			return ErrSameSlot
		}
		dst, err := tx.SlotForUpdate(ctx, target)
		if err != nil {
			return err
		}
		active, err := tx.ActiveTickets(ctx, p.ID)
		if err != nil {
			return err
		}
		seats := len(active)
		if seats == 0 {
			return ErrPresaleNotOperable
		}
		if err := tx.ReserveSeats(ctx, target, seats); err != nil {
			return err
		}
		if err := releaseTicketSeats(ctx, tx, active); err != nil {
			return err
		}
		if err := tx.MoveTickets(ctx, p.ID, target); err != nil {
			return err
		}
		fromDay := p.BusinessDay
		p.SlotKind = dst.Kind
		p.SlotID = dst.ID
		p.BusinessDay = e.businessDayFor(dst)
		if err := tx.UpdatePresaleSlot(ctx, p.ID, target, p.BusinessDay); err != nil {
			return err
		}
		if p.BusinessDay != fromDay {
			if err := tx.RetagCanonical(ctx, p.ID, p.BusinessDay); err != nil {
				return err
			}
			if p.PrepaymentCents > 0 {
				if err := moveLedgerDay(ctx, tx, p, fromDay); err != nil {
					return err
				}
			}
		}
		res = &TransferResult{Presale: p, FromDay: fromDay, ToDay: p.BusinessDay, Seats: seats}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.TransferCompleted(res.Seats)
	return res, nil
}

// TransferTicket moves a single seat to another trip while the rest of
// the sale stays put.  The ticket keeps the price it was sold at; no
// money moves, so neither the ledger nor the canonical projection
// changes.
func (e *Engine) TransferTicket(ctx context.Context, ticketID uint64, target model.SlotUID) (*model.Ticket, error) {
	var moved *model.Ticket
	err := e.store.InTx(ctx, func(tx StoreTx) error {
		t, err := tx.TicketForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if t.Status != model.TicketActive {
			return ErrPresaleNotOperable
		}
		source := model.SlotUID{Kind: t.SlotKind, ID: t.SlotID}
		if source == target {
			return ErrSameSlot
		}
		if _, err := tx.SlotForUpdate(ctx, target); err != nil {
			return err
		}
		if err := tx.ReserveSeats(ctx, target, 1); err != nil {
			return err
		}
		if err := tx.ReleaseSeats(ctx, source, 1); err != nil {
			return err
		}
		if err := tx.MoveTicket(ctx, t.ID, target); err != nil {
			return err
		}
		t.SlotKind = target.Kind
		t.SlotID = target.ID
		moved = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.TransferCompleted(1)
	return moved, nil
}
