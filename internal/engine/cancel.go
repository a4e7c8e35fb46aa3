package engine

import (
	"context"

	"github.com/iliyamo/boat-trip-sales/internal/metrics"
	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// releaseTicketSeats returns each ticket's seat to the slot the ticket
// actually sits on.  After single-seat transfers a presale's tickets
// can be spread over several slots, so releases are grouped per
// ticket slot, never issued in bulk against the presale's slot.
func releaseTicketSeats(ctx context.Context, tx StoreTx, tickets []model.Ticket) error {
	bySlot := make(map[model.SlotUID]int)
	for _, t := range tickets {
		bySlot[t.SlotUID()]++
	}
	for uid, n := range bySlot {
		if err := tx.ReleaseSeats(ctx, uid, n); err != nil {
			return err
		}
	}
	return nil
}

// refundSplit takes amount out of the presale's accumulated cash/card
// balances, draining cash first.
func refundSplit(p *model.Presale, amount int64) (cash, card int64) {
	cash = amount
	if cash > p.CashCents {
		cash = p.CashCents
	}
	card = amount - cash
	return cash, card
}

// reverseEntry appends the ledger reversal for money leaving (REFUND)
// or retained against a future trip (FUND).  The original entries are
// never edited.
func reverseEntry(ctx context.Context, tx StoreTx, p *model.Presale, amount, cash, card int64, decision model.RefundDecision) error {
	presaleID := p.ID
	sellerID := p.SellerID
	return tx.AppendLedger(ctx, &model.LedgerEntry{
		PresaleID:   &presaleID,
		SellerID:    &sellerID,
		BusinessDay: p.BusinessDay,
		Kind:        model.KindSellerShift,
		Type:        model.TypeCancelReverse,
		AmountCents: amount,
		CashCents:   cash,
		CardCents:   card,
		Method:      p.Method,
		Decision:    decision,
		Status:      model.LedgerPosted,
	})
}

// CancelPresale cancels the entire sale: every active ticket is
// refunded, each seat is returned to the slot its ticket sits on, and
// the presale is closed.  When money was collected the caller must decide
// its fate: REFUND hands it back and voids the canonical rows, FUND
// keeps it as credit toward a future trip and leaves the canonical
// rows standing.  Cancelling an already-cancelled presale returns
// ErrPresaleNotOperable.
func (e *Engine) CancelPresale(ctx context.Context, presaleID uint64, decision model.RefundDecision) (*model.Presale, error) {
	var (
		cancelled *model.Presale
		refunded  int64
	)
	err := e.store.InTx(ctx, func(tx StoreTx) error {
		p, err := tx.PresaleForUpdate(ctx, presaleID)
		if err != nil {
			return err
		}
		if p.Status != model.PresaleActive {
			return ErrPresaleNotOperable
		}
		if p.PrepaymentCents > 0 && decision == "" {
			return ErrDecisionRequired
		}
		active, err := tx.ActiveTickets(ctx, p.ID)
		if err != nil {
			return err
		}
		if _, err := tx.RefundAllTickets(ctx, p.ID); err != nil {
			return err
		}
		if err := releaseTicketSeats(ctx, tx, active); err != nil {
			return err
		}
		if p.PrepaymentCents > 0 {
			cash, card := refundSplit(p, p.PrepaymentCents)
			if err := reverseEntry(ctx, tx, p, p.PrepaymentCents, cash, card, decision); err != nil {
				return err
			}
			if decision == model.DecisionRefund {
				if err := tx.VoidCanonical(ctx, p.ID); err != nil {
					return err
				}
				refunded = p.PrepaymentCents
			}
		}
		p.Status = model.PresaleCancelled
		if err := tx.SetPresaleStatus(ctx, p.ID, model.PresaleCancelled); err != nil {
			return err
		}
		cancelled = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.PresaleCancelled(refunded)
	e.publishSaleCancelled(ctx, cancelled, refunded, decision)
	return cancelled, nil
}

// DeleteTicket removes one seat from a sale.  The ticket is refunded,
// the seat returns to the slot, and the presale shrinks by the
// ticket's price.  When the money already collected exceeds the new
// total, the excess needs a decision: REFUND hands it back and posts a
// negative canonical row so the projection still matches collected
// money; FUND keeps it as credit.  Deleting the last active ticket is
// a full cancellation and follows CancelPresale's rules.
func (e *Engine) DeleteTicket(ctx context.Context, ticketID uint64, decision model.RefundDecision) (*model.Presale, error) {
	var (
		result     *model.Presale
		refunded   int64
		escalateTo uint64
	)
	err := e.store.InTx(ctx, func(tx StoreTx) error {
		t, err := tx.TicketForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if t.Status != model.TicketActive {
			return ErrPresaleNotOperable
		}
		p, err := tx.PresaleForUpdate(ctx, t.PresaleID)
		if err != nil {
			return err
		}
		if p.Status != model.PresaleActive {
			return ErrPresaleNotOperable
		}
		active, err := tx.ActiveTickets(ctx, p.ID)
		if err != nil {
			return err
		}
		if len(active) <= 1 {
			escalateTo = p.ID
			return nil
		}

		newTotal := p.TotalPriceCents - t.PriceCents
		excess := p.PrepaymentCents - newTotal
		if excess > 0 && decision == "" {
			return ErrDecisionRequired
		}
		if err := tx.RefundTicket(ctx, t.ID); err != nil {
			return err
		}
		// The seat goes back to the ticket's own slot, which can
		// differ from the presale's after a single-seat transfer.
		if err := tx.ReleaseSeats(ctx, t.SlotUID(), 1); err != nil {
			return err
		}
		p.NumberOfSeats--
		p.TotalPriceCents = newTotal
		if err := tx.UpdatePresaleSeats(ctx, p); err != nil {
			return err
		}
		if excess > 0 {
			cash, card := refundSplit(p, excess)
			if err := reverseEntry(ctx, tx, p, excess, cash, card, decision); err != nil {
				return err
			}
			p.PrepaymentCents = newTotal
			p.CashCents -= cash
			p.CardCents -= card
			if err := tx.UpdatePresalePayment(ctx, p); err != nil {
				return err
			}
			if decision == model.DecisionRefund {
				if err := tx.InsertCanonical(ctx, &model.CanonicalTransaction{
					PresaleID:   p.ID,
					TicketID:    &t.ID,
					BusinessDay: p.BusinessDay,
					AmountCents: -excess,
					Method:      p.Method,
					Status:      model.CanonicalValid,
				}); err != nil {
					return err
				}
				refunded = excess
			}
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	if escalateTo != 0 {
		// The sole remaining ticket closes the whole sale.
		return e.CancelPresale(ctx, escalateTo, decision)
	}
	metrics.TicketDeleted(refunded)
	return result, nil
}
