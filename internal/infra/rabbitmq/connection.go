package rabbitmq

import (
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrChannelUnavailable is returned when an operation is attempted before
// the channel exists or after it has closed. Callers map it to a retryable
// "service unavailable" condition.
var ErrChannelUnavailable = errors.New("rabbitmq channel unavailable")

// Connection owns the single long-lived broker connection of a process and
// transparently reconnects when the transport drops. Operations against a
// broken channel fail fast with ErrChannelUnavailable instead of hanging.
type Connection struct {
	url    string
	queues []string
	logger *zap.Logger

	conn    *amqp.Connection
	channel *amqp.Channel

	stopChan chan struct{}
	stopOnce sync.Once
	mu       sync.RWMutex

	reconnecting bool
	reconnectMu  sync.Mutex
}

// NewConnection prepares a connection that declares the given durable queues
// on every (re)connect, so redeliveries survive broker restarts.
func NewConnection(url string, queues []string, logger *zap.Logger) *Connection {
	return &Connection{
		url:      url,
		queues:   queues,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Connect establishes the initial connection, retrying with exponential
// backoff, then starts the close monitor.
func (c *Connection) Connect() error {
	backoff := time.Second
	const maxBackoff = 30 * time.Second
	const maxAttempts = 10

	for attempt := 1; ; attempt++ {
		err := c.connect()
		if err == nil {
			c.logger.Info("connected to rabbitmq", zap.Int("attempt", attempt))
			break
		}
		if attempt >= maxAttempts {
			return fmt.Errorf("connect to rabbitmq after %d attempts: %w", maxAttempts, err)
		}
		c.logger.Warn("rabbitmq connection failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
		)
		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	go c.monitor()
	return nil
}

func (c *Connection) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil && !c.channel.IsClosed() {
		c.channel.Close()
	}
	if c.conn != nil && !c.conn.IsClosed() {
		c.conn.Close()
	}

	conn, err := amqp.DialConfig(c.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp.Table{
			"connection_name": "alert-pipeline",
		},
	})
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	for _, q := range c.queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
	}

	c.conn = conn
	c.channel = ch
	return nil
}

func (c *Connection) monitor() {
	for {
		c.mu.RLock()
		if c.conn == nil || c.channel == nil {
			c.mu.RUnlock()
			return
		}
		connClose := c.conn.NotifyClose(make(chan *amqp.Error, 1))
		chanClose := c.channel.NotifyClose(make(chan *amqp.Error, 1))
		c.mu.RUnlock()

		select {
		case <-c.stopChan:
			return
		case err := <-connClose:
			if !c.handleClose("connection", err) {
				return
			}
		case err := <-chanClose:
			if !c.handleClose("channel", err) {
				return
			}
		}
	}
}

// handleClose reacts to a close notification. A nil error is a graceful
// shutdown: monitoring must stop, otherwise NotifyClose would be re-armed on
// the dead connection in a tight loop. It reports whether to keep monitoring.
func (c *Connection) handleClose(what string, err *amqp.Error) bool {
	if err == nil {
		return false
	}
	c.logger.Error("rabbitmq "+what+" closed", zap.Error(err))
	c.reconnect()
	return true
}

func (c *Connection) reconnect() {
	c.reconnectMu.Lock()
	if c.reconnecting {
		c.reconnectMu.Unlock()
		return
	}
	c.reconnecting = true
	c.reconnectMu.Unlock()

	defer func() {
		c.reconnectMu.Lock()
		c.reconnecting = false
		c.reconnectMu.Unlock()
	}()

	backoff := time.Second
	const maxBackoff = 30 * time.Second
	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		if err := c.connect(); err != nil {
			c.logger.Warn("rabbitmq reconnect failed", zap.Error(err), zap.Duration("backoff", backoff))
			time.Sleep(backoff)
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		c.logger.Info("rabbitmq reconnected")
		return
	}
}

// Channel returns the current channel, or ErrChannelUnavailable when the
// connection is down or mid-reconnect.
func (c *Connection) Channel() (*amqp.Channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.channel == nil || c.channel.IsClosed() {
		return nil, ErrChannelUnavailable
	}
	return c.channel, nil
}

// IsHealthy reports whether the broker connection is open.
func (c *Connection) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// Close stops the monitor and tears down channel and connection.
func (c *Connection) Close() error {
	c.stopOnce.Do(func() { close(c.stopChan) })

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil && !c.channel.IsClosed() {
		c.channel.Close()
	}
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn.Close()
	}
	return nil
}
