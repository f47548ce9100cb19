package repository

import (
	"context"

	applogger "AgriCast/pkg/logger"
)

type messageProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// KafkaLogPublisher ships aggregated error logs to Kafka, keyed by service
// name so one service's batches stay ordered on a partition.
type KafkaLogPublisher struct {
	producer messageProducer
	key      []byte
}

// NewKafkaLogPublisher creates a publisher for the log collector.
func NewKafkaLogPublisher(producer messageProducer, service string) *KafkaLogPublisher {
	return &KafkaLogPublisher{producer: producer, key: []byte(service)}
}

func (p *KafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, p.key, payload)
}

var _ applogger.Publisher = (*KafkaLogPublisher)(nil)
