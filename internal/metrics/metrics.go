// Package metrics exposes Prometheus counters for the sales engine.
// Init must be called once at startup; every recording function is a
// no-op before that, so the engine can be exercised in tests without
// a registry.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "boatsales_"

var (
	registerOnce sync.Once

	presalesTotal   *prometheus.CounterVec
	seatsSoldTotal  prometheus.Counter
	paymentsCents   prometheus.Counter
	refundsCents    prometheus.Counter
	ticketsDeleted  prometheus.Counter
	transfersTotal  prometheus.Counter
	transferredSeat prometheus.Counter
)

// Init registers the engine metrics with the default registry.
func Init() {
	registerOnce.Do(func() {
		presalesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "presales_total",
				Help: "Presale creation attempts by result",
			},
			[]string{"result"},
		)
		seatsSoldTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "seats_sold_total",
				Help: "Seats sold across all presales",
			},
		)
		paymentsCents = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "payments_cents_total",
				Help: "Money collected in minor units",
			},
		)
		refundsCents = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "refunds_cents_total",
				Help: "Money refunded in minor units",
			},
		)
		ticketsDeleted = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "tickets_deleted_total",
				Help: "Tickets removed from active presales",
			},
		)
		transfersTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "transfers_total",
				Help: "Completed presale and ticket transfers",
			},
		)
		transferredSeat = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "transferred_seats_total",
				Help: "Seats moved between trips by transfers",
			},
		)

		prometheus.MustRegister(
			presalesTotal,
			seatsSoldTotal,
			paymentsCents,
			refundsCents,
			ticketsDeleted,
			transfersTotal,
			transferredSeat,
		)
	})
}

// PresaleCreated records a successful sale with its size and any
// prepayment taken at the counter.
func PresaleCreated(seats int, prepaymentCents int64) {
	if presalesTotal != nil {
		presalesTotal.WithLabelValues("success").Inc()
	}
	if seatsSoldTotal != nil {
		seatsSoldTotal.Add(float64(seats))
	}
	if prepaymentCents > 0 && paymentsCents != nil {
		paymentsCents.Add(float64(prepaymentCents))
	}
}

// PresaleRejected records a sale attempt that failed validation or
// seat reservation.
func PresaleRejected() {
	if presalesTotal != nil {
		presalesTotal.WithLabelValues("rejected").Inc()
	}
}

// PaymentRecorded adds a payment in minor units.
func PaymentRecorded(cents int64) {
	if cents > 0 && paymentsCents != nil {
		paymentsCents.Add(float64(cents))
	}
}

// PresaleCancelled records a cancellation and any money handed back.
func PresaleCancelled(refundedCents int64) {
	if refundedCents > 0 && refundsCents != nil {
		refundsCents.Add(float64(refundedCents))
	}
}

// TicketDeleted records a single-seat removal and any money handed
// back for it.
func TicketDeleted(refundedCents int64) {
	if ticketsDeleted != nil {
		ticketsDeleted.Inc()
	}
	if refundedCents > 0 && refundsCents != nil {
		refundsCents.Add(float64(refundedCents))
	}
}

// TransferCompleted records a finished transfer and how many seats it
// moved.
func TransferCompleted(seats int) {
	if transfersTotal != nil {
		transfersTotal.Inc()
	}
	if transferredSeat != nil {
		transferredSeat.Add(float64(seats))
	}
}
