package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restaurant-bot/logger"
	"restaurant-bot/models"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// Publisher sends menu change events to the topic exchange.
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{conn: conn, logger: log}
}

// RoutingKey is "menu.<event type>", e.g. "menu.item_added".
func RoutingKey(ev models.MenuEvent) string {
	return "menu." + ev.Type
}

// NewPublishing builds the persistent JSON message for ev.
func NewPublishing(ev models.MenuEvent, now time.Time) (amqp091.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("failed to marshal message: %w", err)
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    now,
		Type:         ev.Type,
	}, nil
}

func (p *Publisher) PublishMenuEvent(ctx context.Context, ev models.MenuEvent) error {
	msg, err := NewPublishing(ev, time.Now())
	if err != nil {
		return err
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	key := RoutingKey(ev)
	err = ch.PublishWithContext(ctx,
		p.conn.Exchange(), // exchange
		key,               // routing key
		false,             // mandatory
		false,             // immediate
		msg,
	)
	if err != nil {
		p.logger.Error("message_publish_failed", "failed to publish menu event", err,
			"exchange", p.conn.Exchange(), "routing_key", key)
		return fmt.Errorf("failed to publish message: %w", err)
	}
	p.logger.Debug("message_published", "published menu event",
		"exchange", p.conn.Exchange(), "routing_key", key, "message_size", len(msg.Body))
	return nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}
