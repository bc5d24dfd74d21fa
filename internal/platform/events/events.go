// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

/*
Package events provides the outbound domain-event pipeline.

Events notify other Altura services of state changes (a sign-up created, a
phone one-time code issued) without coupling the workflow to delivery.

Architecture:

  - Envelope: Every event carries its source, name, and correlation id.
  - Fire-and-forget: Publishing never fails a workflow. Delivery errors are
    logged and dropped.
  - Transport: Kafka via segmentio/kafka-go. A no-op publisher is provided
    for tests and broker-less environments.
*/
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/lureyes/altura/internal/platform/ctxutil"
)

// publishTimeout bounds a single broker write so a slow broker cannot
// stall the calling request.
const publishTimeout = 5 * time.Second

// Event is the envelope written to the broker.
type Event struct {
	// Source identifies the emitting subsystem (e.g. "signup", "users").
	Source string `json:"source"`
	// Name identifies the event within its source (e.g. "saved").
	Name string `json:"event_name"`
	// CCID is the cross-service correlation id of the originating request.
	CCID string `json:"ccid"`
	// Payload is the event-specific body.
	Payload any `json:"payload"`
}

// Publisher delivers domain events to interested services.
type Publisher interface {
	// Publish emits an event. Implementations must never propagate delivery
	// failures to the caller.
	Publish(ctx context.Context, event Event)
}

// # Kafka Publisher

// KafkaPublisher writes events to a single Kafka topic, keyed by event name
// so consumers of the same name see them in order.
type KafkaPublisher struct {
	writer  *kafka.Writer
	brokers []string
	logger  *slog.Logger
}

// NewKafkaPublisher builds a publisher over the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		brokers: brokers,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
			WriteTimeout: publishTimeout,
		},
		logger: logger,
	}
}

// Publish implements [Publisher].
//
// The CCID is filled from the context when the envelope does not carry one
// already, so events stay correlated with the request that caused them.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	if event.CCID == "" {
		event.CCID = ctxutil.GetCCID(ctx)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "event_marshal_failed",
			slog.String("source", event.Source),
			slog.String("name", event.Name),
			slog.Any("error", err),
		)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(event.Source + "." + event.Name),
		Value: body,
		Time:  time.Now(),
	}); err != nil {
		p.logger.ErrorContext(ctx, "event_publish_failed",
			slog.String("source", event.Source),
			slog.String("name", event.Name),
			slog.Any("error", err),
		)
	}
}

// Ping verifies that at least one broker accepts connections. Used by the
// readiness probe.
func (p *KafkaPublisher) Ping(ctx context.Context) error {
	var lastErr error
	for _, broker := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		_ = conn.Close()
		return nil
	}
	return fmt.Errorf("kafka_brokers_unreachable: %w", lastErr)
}

// Close flushes pending messages and releases the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// # Noop Publisher

// NoopPublisher discards every event. Used in tests and when no broker
// is configured.
type NoopPublisher struct{}

// Publish implements [Publisher].
func (NoopPublisher) Publish(context.Context, Event) {}
