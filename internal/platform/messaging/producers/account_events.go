package producers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/bank-accounts-service/internal/config"
	"github.com/segmentio/kafka-go"
)

// AccountEventProducer writes account events to the account events topic. Writes are
// synchronous so the outbox row is only marked published after the broker acknowledged it.
type AccountEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

func NewAccountEventProducer(logger *slog.Logger, cfg *config.KafkaConfig) (*AccountEventProducer, error) {
	if cfg.AccountEventsTopic == "" {
		return nil, fmt.Errorf("kafka account events topic is not configured")
	}

	logger = logger.With("component", "account_event_producer")
	if err := dialAndEnsureTopic(cfg.Brokers, cfg.AccountEventsTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure topic %s exists: %w", cfg.AccountEventsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:  kafka.TCP(cfg.Brokers),
		Topic: cfg.AccountEventsTopic,
		// keyed by account id so one account's events stay on one partition, in order
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &AccountEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.AccountEventsTopic,
	}, nil
}

func (p *AccountEventProducer) Publish(ctx context.Context, msg Message) error {
	kmsg := kafka.Message{
		Key:     []byte(msg.Key),
		Value:   msg.Value,
		Headers: toHeaders(msg.Headers),
	}

	if err := p.writer.WriteMessages(ctx, kmsg); err != nil {
		p.logger.Error("Failed to publish account event",
			"topic", p.topic,
			"key", msg.Key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published account event", "topic", p.topic, "key", msg.Key)
	return nil
}

func (p *AccountEventProducer) Close() error {
	p.logger.Info("Closing account event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}

// toHeaders sorts by key so the wire order is stable.
func toHeaders(h map[string]string) []kafka.Header {
	if len(h) == 0 {
		return nil
	}
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]kafka.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(h[k])})
	}
	return headers
}

var _ MessagePublisher = (*AccountEventProducer)(nil)
