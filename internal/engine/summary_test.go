package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/boat-trip-sales/internal/model"
)

func TestMoneySummaryFromLedger(t *testing.T) {
	s := newMemStore()
	slot := seedSlot(s, 1, testDay, 20)
	e := newTestEngine(s)
	ctx := context.Background()

	in := saleInput(slot, 2, 1300, model.MethodMixed)
	in.CashCents = 800
	in.CardCents = 500
	mustCreate(t, e, in)

	refunded := mustCreate(t, e, saleInput(slot, 1, 1000, model.MethodCash))
	_, err := e.CancelPresale(ctx, refunded.ID, model.DecisionRefund)
	require.NoError(t, err)

	funded := mustCreate(t, e, saleInput(slot, 1, 400, model.MethodCash))
	_, err = e.CancelPresale(ctx, funded.ID, model.DecisionFund)
	require.NoError(t, err)

	rows, err := e.MoneySummary(ctx, testDay, testDay)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, SourceLedger, row.Source)
	assert.Equal(t, int64(1300+400), row.RevenueCents)
	assert.Equal(t, int64(800+400), row.CashCents)
	assert.Equal(t, int64(500), row.CardCents)
	assert.Equal(t, int64(400), row.FundedCents)
	assert.Equal(t, 2, row.Tickets)
	assert.False(t, row.Locked)
}

func TestMoneySummaryOverrideSupersedesWholesale(t *testing.T) {
	s := newMemStore()
	slot := seedSlot(s, 1, testDay, 20)
	e := newTestEngine(s)
	ctx := context.Background()

	mustCreate(t, e, saleInput(slot, 2, 2000, model.MethodCash))

	// The override replaces every computed figure for its day, even
	// the ones it sets lower than the ledger shows.
	err := e.SetDayOverride(ctx, &model.DayOverride{
		BusinessDay:  testDay,
		RevenueCents: 500,
		CashCents:    500,
		Tickets:      1,
		Note:         "till recounted by hand",
	})
	require.NoError(t, err)

	rows, err := e.MoneySummary(ctx, testDay, testDay)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, SourceOverride, row.Source)
	assert.Equal(t, int64(500), row.RevenueCents)
	assert.Equal(t, int64(500), row.CashCents)
	assert.Equal(t, int64(0), row.CardCents)
	assert.Equal(t, 1, row.Tickets)
	assert.Equal(t, "till recounted by hand", row.Note)

	// Days without sales still appear once they carry an override.
	err = e.SetDayOverride(ctx, &model.DayOverride{BusinessDay: "2025-07-15", RevenueCents: 100})
	require.NoError(t, err)
	rows, err = e.MoneySummary(ctx, testDay, "2025-07-15")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, testDay, rows[0].Day)
	assert.Equal(t, "2025-07-15", rows[1].Day)
}

func TestSetDayOverrideValidation(t *testing.T) {
	s := newMemStore()
	e := newTestEngine(s)
	ctx := context.Background()

	err := e.SetDayOverride(ctx, &model.DayOverride{BusinessDay: "14-07-2025"})
	assert.Error(t, err)

	err = e.SetDayOverride(ctx, &model.DayOverride{BusinessDay: testDay, RevenueCents: -1})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDayOverrideFor(t *testing.T) {
	s := newMemStore()
	e := newTestEngine(s)
	ctx := context.Background()

	_, err := e.DayOverrideFor(ctx, "14-07-2025")
	assert.Error(t, err)

	_, err = e.DayOverrideFor(ctx, testDay)
	assert.ErrorIs(t, err, ErrOverrideMissing)

	require.NoError(t, e.SetDayOverride(ctx, &model.DayOverride{
		BusinessDay: testDay, RevenueCents: 45000, CashCents: 30000, CardCents: 15000, Tickets: 45,
	}))
	ov, err := e.DayOverrideFor(ctx, testDay)
	require.NoError(t, err)
	assert.Equal(t, int64(45000), ov.RevenueCents)
	assert.Equal(t, 45, ov.Tickets)
}

func TestLockDayOverride(t *testing.T) {
	s := newMemStore()
	e := newTestEngine(s)
	ctx := context.Background()

	err := e.LockDayOverride(ctx, testDay)
	assert.ErrorIs(t, err, ErrOverrideMissing)

	require.NoError(t, e.SetDayOverride(ctx, &model.DayOverride{BusinessDay: testDay, RevenueCents: 900}))
	require.NoError(t, e.LockDayOverride(ctx, testDay))

	rows, err := e.MoneySummary(ctx, testDay, testDay)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Locked)

	// A locked day is immutable.
	err = e.SetDayOverride(ctx, &model.DayOverride{BusinessDay: testDay, RevenueCents: 100})
	assert.ErrorIs(t, err, errOverrideLocked)
	err = e.LockDayOverride(ctx, testDay)
	assert.ErrorIs(t, err, errOverrideLocked)
}

func TestReconcileValidatesRange(t *testing.T) {
	s := newMemStore()
	e := newTestEngine(s)

	_, err := e.Reconcile(context.Background(), "not-a-day", testDay)
	assert.Error(t, err)
	_, err = e.MoneySummary(context.Background(), testDay, "2025-13-40")
	assert.Error(t, err)
}

func TestSellerBreakdown(t *testing.T) {
	s := newMemStore()
	s.addSeller(7, "anna")
	s.addSeller(8, "bjorn")
	slot := seedSlot(s, 1, testDay, 20)
	e := newTestEngine(s)
	ctx := context.Background()

	mustCreate(t, e, saleInput(slot, 2, 2000, model.MethodCash))

	other := saleInput(slot, 1, 1000, model.MethodCard)
	other.ActorID = 8
	mustCreate(t, e, other)

	refunded := saleInput(slot, 1, 500, model.MethodCash)
	refunded.ActorID = 8
	r := mustCreate(t, e, refunded)
	_, err := e.CancelPresale(ctx, r.ID, model.DecisionRefund)
	require.NoError(t, err)

	rows, err := e.SellerBreakdown(ctx, testDay, testDay)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "anna", rows[0].DisplayName)
	assert.Equal(t, int64(2000), rows[0].CollectedCents)
	assert.Equal(t, "bjorn", rows[1].DisplayName)
	assert.Equal(t, int64(1000), rows[1].CollectedCents)
	assert.Equal(t, int64(1000), rows[1].CardCents)
}

func TestOccupancy(t *testing.T) {
	s := newMemStore()
	slot := seedSlot(s, 1, testDay, 10)
	seedSlot(s, 2, "2025-07-20", 6)
	e := newTestEngine(s)
	ctx := context.Background()

	mustCreate(t, e, saleInput(slot, 4, 0, ""))

	rows, err := e.Occupancy(ctx, testDay, "2025-07-20")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 4, rows[0].SeatsSold)
	assert.Equal(t, 10, rows[0].Capacity)
	assert.Equal(t, 0, rows[1].SeatsSold)
}

func TestBoardingList(t *testing.T) {
	s := newMemStore()
	slot := seedSlot(s, 1, testDay, 10)
	e := newTestEngine(s)
	ctx := context.Background()

	p := mustCreate(t, e, saleInput(slot, 2, 2000, model.MethodCash))
	tickets, err := (*memTx)(s).ActiveTickets(ctx, p.ID)
	require.NoError(t, err)
	_, err = e.DeleteTicket(ctx, tickets[0].ID, model.DecisionFund)
	require.NoError(t, err)

	items, err := e.BoardingList(ctx, slot)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, tickets[1].Code, items[0].Code)
	assert.Equal(t, "Anna Berg", items[0].CustomerName)
	assert.True(t, items[0].PaidInFull)

	_, err = e.BoardingList(ctx, model.SlotUID{Kind: model.SlotManual, ID: 99})
	assert.ErrorIs(t, err, errSlotMissing)
}

func TestPresaleDetail(t *testing.T) {
	s := newMemStore()
	slot := seedSlot(s, 1, testDay, 10)
	e := newTestEngine(s)
	ctx := context.Background()

	p := mustCreate(t, e, saleInput(slot, 2, 500, model.MethodCash))
	_, err := e.TopUpPayment(ctx, p.ID, 300, model.MethodCash, 0, 0)
	require.NoError(t, err)

	detail, err := e.PresaleDetail(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, detail.Presale.ID)
	assert.Len(t, detail.Tickets, 2)
	require.Len(t, detail.Ledger, 2)
	assert.Equal(t, model.TypeSalePrepayment, detail.Ledger[0].Type)
	assert.Equal(t, model.TypeSaleTopUp, detail.Ledger[1].Type)
}

func TestBusinessDayFallsBackToClock(t *testing.T) {
	s := newMemStore()
	uid := s.addSlot(model.Slot{
		ID:              3,
		Kind:            model.SlotManual,
		BoatName:        "Charter",
		Capacity:        4,
		SeatsRemaining:  4,
		PriceAdultCents: 2500,
		IsActive:        true,
	})
	model.SetBusinessLocation(time.UTC)
	e := New(s).WithClock(func() time.Time {
		return time.Date(2025, 8, 2, 23, 45, 0, 0, time.UTC)
	})

	p := mustCreate(t, e, saleInput(uid, 1, 0, ""))
	assert.Equal(t, "2025-08-02", p.BusinessDay)
}
