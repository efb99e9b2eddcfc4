package eventsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"

	"github.com/farmwise/farmwise/core"
)

// rabbitPublisher broadcasts domain events on a durable topic exchange, routed by event type.
type rabbitPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   core.Logger
	mu       sync.Mutex
}

var _ core.EventPublisher = (*rabbitPublisher)(nil)

// NewPublisher connects to the broker configured in conf.Events.
// Without a broker URL, events are only logged.
func NewPublisher(conf *core.Config, logger core.Logger) (core.EventPublisher, error) {
	if conf.Events.URL == "" {
		logger.Info("events: broker URL is empty, event publishing is disabled")
		return NewNoopPublisher(), nil
	}

	conn, err := amqp091.Dial(conf.Events.URL)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to RabbitMQ")
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "opening channel")
	}
	err = channel.ExchangeDeclare(
		conf.Events.Exchange, // name
		"topic",              // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, errors.Wrap(err, "declaring exchange")
	}

	logger.Info(fmt.Sprintf("events: publishing on exchange %q", conf.Events.Exchange))
	return &rabbitPublisher{
		conn:     conn,
		channel:  channel,
		exchange: conf.Events.Exchange,
		logger:   logger,
	}, nil
}

func (p *rabbitPublisher) Publish(ctx context.Context, event core.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshalling event")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			Headers: amqp091.Table{
				"event_type": event.Type,
				"user_id":    event.UserID,
			},
		},
	)
	if err != nil {
		return errors.Wrapf(err, "publishing %s event", event.Type)
	}
	return nil
}

func (p *rabbitPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.logger.Warn(fmt.Sprintf("closing RabbitMQ channel: %v", err), err)
	}
	if err := p.conn.Close(); err != nil {
		return errors.Wrap(err, "closing RabbitMQ connection")
	}
	return nil
}
