package ingest

import (
	"context"

	"awardsreport/internal/platform/kafka/producer"
)

// KafkaPublisher emits ingest run events to the configured Kafka topic,
// keyed by run ID so one run's events stay in order on a partition.
type KafkaPublisher struct {
	producer *producer.Producer
}

// NewKafkaPublisher wraps a topic producer.
func NewKafkaPublisher(p *producer.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: p}
}

func (k *KafkaPublisher) Emit(ctx context.Context, event Event) error {
	return k.producer.PublishJSON(ctx, event.RunID, event)
}
