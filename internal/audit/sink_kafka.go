package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"trustcore/internal/platform/kafka"
)

// KafkaSink publishes audit events to the audit topic, keyed by domain so one
// tenant's trail stays in partition order.
type KafkaSink struct {
	producer *kafka.Producer
}

// NewKafkaSink wraps a producer as a pipeline subscriber.
func NewKafkaSink(producer *kafka.Producer) *KafkaSink {
	return &KafkaSink{producer: producer}
}

// Handle serializes the event and hands it to the producer. Broker-side
// delivery failures are handled inside the producer; only serialization
// failures surface here.
func (s *KafkaSink) Handle(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	s.producer.Produce(ctx, []byte(event.Domain), payload)
	return nil
}
