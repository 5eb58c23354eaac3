// Package events publishes training domain events to kafka, keyed by user id so
// one user's events stay ordered within a partition.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/periodize/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
)

type Type string

const (
	VolumeLogged         Type = "volume.logged"
	LandmarksSeeded      Type = "landmarks.seeded"
	LandmarksUpdated     Type = "landmarks.updated"
	ProgramCreated       Type = "program.created"
	ProgramInstantiated  Type = "program.instantiated"
	ProgramDeleted       Type = "program.deleted"
	ObjectiveCreated     Type = "objective.created"
	ObjectiveAssociated  Type = "objective.associated"
	ObjectiveDissociated Type = "objective.dissociated"
)

const headerEventType = "event-type"

type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	UserID     string    `json:"userId,omitempty"`
	EntityID   string    `json:"entityId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

func New(t Type, userID, entityID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		UserID:     userID,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
		BatchTimeout: 10 * time.Millisecond,
	})
}

func NewKafkaPublisherWithWriter(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "events.kafka.publish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("event.type", string(event.Type)),
		attribute.String("event.id", event.ID),
	)

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(event.Type)},
		},
	}); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
