package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"tablebook/internal/pkg/config"
	"tablebook/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher fans domain events out through a RabbitMQ topic exchange.
// Messages are persistent JSON; consumers bind their own queues by
// routing key pattern. Publish failures are returned to the caller,
// which treats them as log-only: a lost event never fails a command.
type Publisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

func NewPublisher(cfg config.AMQPConfig) (*Publisher, func(), error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to connect to message broker")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to open broker channel")
	}

	// Durable so bindings and buffered messages survive broker restarts.
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to declare exchange")
	}

	p := &Publisher{
		conn:     conn,
		exchange: cfg.Exchange,
		ch:       ch,
	}

	cleanup := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.ch != nil {
			_ = p.ch.Close()
		}
		_ = p.conn.Close()
	}

	return p, cleanup, nil
}

// Publish serializes on one channel: amqp channels are not safe for
// concurrent use, and a channel closed by the broker is reopened on
// the next call.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "failed to encode event payload")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.ensureChannel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		_ = ch.Close()
		p.ch = nil
		return errs.Wrap(err, "failed to publish event")
	}

	return nil
}

// ensureChannel expects p.mu to be held.
func (p *Publisher) ensureChannel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return nil, errs.Wrap(err, "failed to reopen broker channel")
	}
	p.ch = ch

	return ch, nil
}
