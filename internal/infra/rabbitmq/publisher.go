package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/storewatch/alert-pipeline/internal/domain/entity"
)

// alertTypeHeader is the constant classification tag carried by every alert.
const alertTypeHeader = "security"

// AlertPublisher publishes alerts persistent to a named durable queue via
// the default exchange. Publish returns once the broker accepted the frame;
// publisher confirms are deliberately not enabled, trading a durability
// window for publish latency.
type AlertPublisher struct {
	conn  *Connection
	queue string
}

func NewAlertPublisher(conn *Connection, queue string) *AlertPublisher {
	return &AlertPublisher{conn: conn, queue: queue}
}

func (p *AlertPublisher) Publish(ctx context.Context, alert entity.Alert) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		"",
		p.queue,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Headers: amqp.Table{
				"x-alert-type": alertTypeHeader,
				"x-timestamp":  strconv.FormatFloat(alert.Timestamp, 'f', -1, 64),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	return nil
}
