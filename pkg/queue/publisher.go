// Package queue delivers domain events to Kafka. Delivery is
// at-least-once: a duplicate after an ambiguous broker failure is
// acceptable and downstream consumers are expected to deduplicate.
package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"

	"shipflow/pkg/faults"
	"shipflow/pkg/tracing"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Writer struct {
	*kafka.Writer
}

func NewWriter(brokers []string) *Writer {
	return &Writer{
		Writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

type Publisher struct {
	log         *slog.Logger
	producer    Producer
	topic       string
	callTimeout time.Duration
	published   prometheus.Counter
}

// NewPublisher wraps producer for a single topic. published may be nil.
func NewPublisher(log *slog.Logger, producer Producer, topic string, callTimeout time.Duration, published prometheus.Counter) *Publisher {
	return &Publisher{
		log:         log,
		producer:    producer,
		topic:       topic,
		callTimeout: callTimeout,
		published:   published,
	}
}

// Publish sends one message keyed by the entity id, with the active trace
// context and the event type in the headers.
func (p *Publisher) Publish(ctx context.Context, eventType, key string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	headers := []kafka.Header{{Key: "event_type", Value: []byte(eventType)}}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	msg := kafka.Message{
		Topic:   p.topic,
		Key:     []byte(key),
		Value:   payload,
		Headers: headers,
	}
	if err := p.producer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("publish failed", "type", eventType, "key", key, "err", err)
		return faults.Unavailable(err)
	}
	if p.published != nil {
		p.published.Inc()
	}
	p.log.Info("event published", "type", eventType, "key", key)
	return nil
}
