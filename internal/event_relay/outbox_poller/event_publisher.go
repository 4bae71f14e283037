package outbox_poller

import (
	"context"
	"errors"
	"fmt"

	"github.com/bank-accounts-service/internal/domain/outbox"
	"github.com/bank-accounts-service/internal/platform/messaging/producers"
)

// ErrMalformedPayload marks outbox rows that can never be published.
var ErrMalformedPayload = errors.New("malformed outbox payload")

// EventPublisher publishes one outbox message to the event stream.
type EventPublisher interface {
	Publish(ctx context.Context, message *outbox.Message) error
}

// KafkaEventPublisher sends outbox payloads unchanged, keyed by account id.
type KafkaEventPublisher struct {
	producer producers.MessagePublisher
}

func NewKafkaEventPublisher(producer producers.MessagePublisher) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, message *outbox.Message) error {
	evt, err := message.Event()
	if err != nil {
		return fmt.Errorf("%w: outbox %d: %v", ErrMalformedPayload, message.ID, err)
	}
	if err := evt.Validate(); err != nil {
		return fmt.Errorf("%w: outbox %d: %v", ErrMalformedPayload, message.ID, err)
	}

	headers := map[string]string{
		"event-id":   message.EventID.String(),
		"event-type": string(message.EventType),
	}
	if evt.CorrelationID != "" {
		headers["correlation-id"] = evt.CorrelationID
	}

	return p.producer.Publish(ctx, producers.Message{
		Key:     message.AccountID.String(),
		Value:   message.Payload,
		Headers: headers,
	})
}

var _ EventPublisher = (*KafkaEventPublisher)(nil)
