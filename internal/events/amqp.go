package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"budgettracker/internal/logger"
)

const publishTimeout = 5 * time.Second

// AMQPPublisher publishes events to a durable topic exchange.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	exchange string

	mu      sync.Mutex // amqp channels are not safe for concurrent publishes
	channel *amqp091.Channel
}

// NewAMQPPublisher dials url and declares exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// Publish sends event as a persistent JSON message routed by its RoutingKey.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := Encode(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,         // exchange
		event.RoutingKey(), // routing key
		false,              // mandatory
		false,              // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.RoutingKey(), err)
	}

	logger.Get().Debugw("published event",
		"exchange", p.exchange,
		"routing_key", event.RoutingKey(),
	)
	return nil
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return fmt.Errorf("close channel: %w", err)
	}
	return p.conn.Close()
}
