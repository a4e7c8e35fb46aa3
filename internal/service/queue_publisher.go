// Package queue_publisher publishes domain events to RabbitMQ.
// Errors are logged and swallowed so a broker outage never interrupts
// the request flow that produced the event.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/boat-trip-sales/internal/queue"
)

// Publisher pushes sales events onto durable queues.  A fresh
// connection is dialed per publish; event volume is a handful per
// minute, so connection reuse buys nothing worth the reconnect
// bookkeeping.
type Publisher struct {
	url string
}

// New returns a Publisher for the given AMQP URL, or nil when the URL
// is empty so callers can wire it unconditionally.
func New(url string) *Publisher {
	if url == "" {
		return nil
	}
	return &Publisher{url: url}
}

// SaleRecorded publishes a SaleRecordedEvent.
func (p *Publisher) SaleRecorded(ctx context.Context, ev q.SaleRecordedEvent) {
	p.publish(ctx, q.QueueSaleRecorded, ev)
}

// SaleCancelled publishes a SaleCancelledEvent.
func (p *Publisher) SaleCancelled(ctx context.Context, ev q.SaleCancelledEvent) {
	p.publish(ctx, q.QueueSaleCancelled, ev)
}

func (p *Publisher) publish(ctx context.Context, queue string, event any) {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
	}
}
