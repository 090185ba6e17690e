package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
)

// Producer publishes availability events for downstream calendar sync.
// Publishing is best effort: callers log failures and move on, a toggle
// never fails because the broker is down.
type Producer struct {
	producer    sarama.SyncProducer
	topicPrefix string
	logger      *slog.Logger
}

func NewProducer(brokers []string, topicPrefix string, logger *slog.Logger) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	p, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka: producer init: %w", err)
	}
	return &Producer{producer: p, topicPrefix: topicPrefix, logger: logger}, nil
}

// Publish sends the payload JSON-encoded to the topic named after the
// event, keyed by the aggregate id so one property's events stay ordered
// within a partition.
func (p *Producer) Publish(ctx context.Context, name, key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("kafka: encode %s: %w", name, err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topicPrefix + name,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(raw),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("kafka: publish %s: %w", name, err)
	}
	if p.logger != nil {
		p.logger.Debug("event published", "event", name, "key", key)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
