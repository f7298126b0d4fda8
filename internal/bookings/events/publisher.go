package events

import (
	"context"

	"domus/pkg/kafka"
	"domus/pkg/model"
)

// Publisher emits booking lifecycle events. Messages are keyed by sellerId
// so one seller's events stay ordered within a partition.
type Publisher interface {
	Publish(ctx context.Context, event model.BookingEvent) error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event model.BookingEvent) error {
	msg := kafka.NewMessage().
		WithKey(event.SellerID).
		WithValue(event).
		WithEventType(event.EventType).
		WithSchemaVersion("1").
		WithSource(p.source).
		Build()

	return p.producer.Publish(ctx, msg)
}
