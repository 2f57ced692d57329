package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/storewatch/alert-pipeline/internal/domain/port"
)

// Consumer drains the durable alerts queue with manual acknowledgment. The
// broker-side prefetch window is the sole throughput throttle: no more than
// Prefetch messages are unacknowledged at any time, across all workers.
type Consumer struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	dlqChannel  *amqp.Channel
	queue       string
	dlq         string
	workerCount int
	handler     port.MessageHandler
	logger      *zap.Logger
	wg          sync.WaitGroup

	// Swappable in tests.
	publishDLQ func(ctx context.Context, body []byte, reason string) error
}

type ConsumerConfig struct {
	URL         string
	Queue       string
	DLQ         string
	Prefetch    int
	WorkerCount int
}

func NewConsumer(cfg ConsumerConfig, handler port.MessageHandler, logger *zap.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	for _, q := range []string{cfg.Queue, cfg.DLQ} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			conn.Close()
			return nil, fmt.Errorf("declare queue %s: %w", q, err)
		}
	}

	if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	// Dead-letter publishes go through their own channel so they never
	// interleave with consume-side acknowledgments.
	dlqCh, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open dlq channel: %w", err)
	}

	workerCount := cfg.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}

	c := &Consumer{
		conn:        conn,
		channel:     ch,
		dlqChannel:  dlqCh,
		queue:       cfg.Queue,
		dlq:         cfg.DLQ,
		workerCount: workerCount,
		handler:     handler,
		logger:      logger,
	}
	c.publishDLQ = c.publishToDLQ
	return c, nil
}

// Start consumes until ctx is cancelled, then waits for in-flight handlers
// to settle their deliveries before returning.
func (c *Consumer) Start(ctx context.Context) error {
	deliveries, err := c.channel.ConsumeWithContext(
		ctx,
		c.queue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	c.logger.Info("starting worker pool",
		zap.Int("workers", c.workerCount),
		zap.String("queue", c.queue),
	)

	for i := 0; i < c.workerCount; i++ {
		c.wg.Add(1)
		go c.worker(ctx, i, deliveries)
	}

	<-ctx.Done()
	c.logger.Info("context cancelled, waiting for workers to finish")
	c.wg.Wait()
	return nil
}

func (c *Consumer) worker(ctx context.Context, id int, deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()
	log := c.logger.With(zap.Int("worker_id", id))
	log.Info("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info("worker shutting down")
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Info("delivery channel closed")
				return
			}
			c.settle(ctx, d, c.handler(ctx, d.Body), log)
		}
	}
}

// settle resolves a delivery exactly once, according to the handler outcome.
func (c *Consumer) settle(ctx context.Context, d amqp.Delivery, outcome port.Outcome, log *zap.Logger) {
	switch outcome.Kind {
	case port.OutcomeNack:
		if err := d.Nack(false, outcome.Requeue); err != nil {
			log.Error("nack failed", zap.Error(err), zap.Uint64("delivery_tag", d.DeliveryTag))
		}
	case port.OutcomeDeadLetter:
		if err := c.publishDLQ(ctx, d.Body, outcome.Reason); err != nil {
			// Requeue rather than lose the message when the DLQ itself
			// is unreachable.
			log.Error("dead-letter publish failed, requeueing", zap.Error(err))
			_ = d.Nack(false, true)
			return
		}
		if err := d.Ack(false); err != nil {
			log.Error("ack after dead-letter failed", zap.Error(err))
		}
	default:
		if err := d.Ack(false); err != nil {
			log.Error("ack failed", zap.Error(err), zap.Uint64("delivery_tag", d.DeliveryTag))
		}
	}
}

func (c *Consumer) publishToDLQ(ctx context.Context, body []byte, reason string) error {
	return c.dlqChannel.PublishWithContext(ctx,
		"",
		c.dlq,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Headers: amqp.Table{
				"x-dlq-reason": reason,
			},
		},
	)
}

func (c *Consumer) Close() error {
	if c.dlqChannel != nil {
		c.dlqChannel.Close()
	}
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
