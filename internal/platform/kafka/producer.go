// Package kafka wraps the franz-go client for the audit topic. The producer is
// fire-and-forget: the audit pipeline must never wait on broker acknowledgement.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer publishes audit records to a single topic.
type Producer struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewProducer connects to the given brokers. Returns an error if no brokers
// are configured; callers decide whether Kafka is optional.
func NewProducer(brokers []string, topic string, logger *slog.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka: new client: %w", err)
	}
	return &Producer{client: client, topic: topic, logger: logger}, nil
}

// Produce sends one record asynchronously. Delivery failures are logged, not
// returned; the caller has already moved on.
func (p *Producer) Produce(ctx context.Context, key, value []byte) {
	record := &kgo.Record{Topic: p.topic, Key: key, Value: value}
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("kafka produce failed",
				"topic", r.Topic,
				"error", err,
			)
		}
	})
}

// Close flushes buffered records and releases the client.
func (p *Producer) Close() {
	p.client.Close()
}
