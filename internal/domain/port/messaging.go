package port

import (
	"context"

	"github.com/storewatch/alert-pipeline/internal/domain/entity"
)

// AlertPublisher hands an alert to the durable queue. A nil error means the
// broker accepted the publish call, not that the message is persisted.
type AlertPublisher interface {
	Publish(ctx context.Context, alert entity.Alert) error
}

// OutcomeKind classifies how the consumer must settle a delivery.
type OutcomeKind int

const (
	OutcomeAck OutcomeKind = iota
	OutcomeNack
	OutcomeDeadLetter
)

// Outcome is returned by the per-message handler. The consumer settles the
// delivery exactly once according to it: Ack removes the message, Nack hands
// it back to the broker, DeadLetter publishes the body to the DLQ and then
// acks the original.
type Outcome struct {
	Kind    OutcomeKind
	Requeue bool
	Reason  string
}

func Ack() Outcome { return Outcome{Kind: OutcomeAck} }

func Nack(requeue bool) Outcome { return Outcome{Kind: OutcomeNack, Requeue: requeue} }

func DeadLetter(reason string) Outcome { return Outcome{Kind: OutcomeDeadLetter, Reason: reason} }

// MessageHandler processes one delivered message body.
type MessageHandler func(ctx context.Context, body []byte) Outcome
