package messaging

import (
	"fmt"
	"sync"
	"time"

	"restaurant-bot/logger"

	"github.com/rabbitmq/amqp091-go"
)

const connectAttempts = 5

// Connection wraps a RabbitMQ connection and channel, redialling when the broker drops it.
type Connection struct {
	url      string
	exchange string
	logger   *logger.Logger

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// Dial connects to url and declares the durable topic exchange used for menu events.
func Dial(url, exchange string, log *logger.Logger) (*Connection, error) {
	c := &Connection{url: url, exchange: exchange, logger: log}
	if err := c.connect(); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}
	return c, nil
}

func (c *Connection) connect() error {
	var err error
	for i := 0; i < connectAttempts; i++ {
		if err = c.dialOnce(); err == nil {
			return nil
		}
		if i < connectAttempts-1 {
			wait := time.Duration(i+1) * 2 * time.Second
			c.logger.Error("amqp_connect_failed",
				fmt.Sprintf("failed to connect to RabbitMQ, retrying in %v", wait), err)
			time.Sleep(wait)
		}
	}
	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", connectAttempts, err)
}

func (c *Connection) dialOnce() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	err = ch.ExchangeDeclare(
		c.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare %s exchange: %w", c.exchange, err)
	}
	c.conn, c.channel = conn, ch
	return nil
}

// Channel returns a live channel, reconnecting first if the connection was closed.
func (c *Connection) Channel() (*amqp091.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || c.conn.IsClosed() || c.channel == nil || c.channel.IsClosed() {
		c.closeLocked()
		if err := c.connect(); err != nil {
			return nil, fmt.Errorf("failed to reconnect: %w", err)
		}
	}
	return c.channel, nil
}

func (c *Connection) Exchange() string { return c.exchange }

func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Connection) closeLocked() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
