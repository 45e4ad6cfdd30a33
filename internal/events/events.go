// Package events publishes domain events emitted by the recurrence engine.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RoutingKeyMaterialized is the routing key for RecurringMaterialized events.
const RoutingKeyMaterialized = "recurring.materialized"

// RecurringMaterialized announces that a schedule produced a concrete expense.
type RecurringMaterialized struct {
	ScheduleID  string          `json:"schedule_id"`
	UserID      string          `json:"user_id"`
	ExpenseID   string          `json:"expense_id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	NextDue     time.Time       `json:"next_due"`
	Manual      bool            `json:"manual"`
	PublishedAt time.Time       `json:"published_at"`
}

// RoutingKey implements Event.
func (RecurringMaterialized) RoutingKey() string { return RoutingKeyMaterialized }

// Event is any message that can be routed to the exchange.
type Event interface {
	RoutingKey() string
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Encode serializes an event body as JSON.
func Encode(event Event) ([]byte, error) {
	return json.Marshal(event)
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that discards every event. It is used
// when AMQP_URL is not configured.
func NewNopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }

// NewPublisher connects to url, or returns a no-op publisher when url is empty.
func NewPublisher(url, exchange string) (Publisher, error) {
	if url == "" {
		return NewNopPublisher(), nil
	}
	p, err := NewAMQPPublisher(url, exchange)
	if err != nil {
		return nil, err
	}
	return p, nil
}
