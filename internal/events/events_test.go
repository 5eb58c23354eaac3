package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/2beens/periodize/internal/events"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *stubWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &stubWriter{}
	publisher := events.NewKafkaPublisherWithWriter(writer)

	event := events.New(events.VolumeLogged, "user1", "chest", map[string]float64{"volume": 14})
	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, []byte("user1"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, []byte("volume.logged"), msg.Headers[0].Value)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded["id"])
	assert.Equal(t, "volume.logged", decoded["type"])
	assert.Equal(t, "chest", decoded["entityId"])
	assert.Equal(t, map[string]any{"volume": 14.0}, decoded["payload"])

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	publisher := events.NewKafkaPublisherWithWriter(&stubWriter{err: errors.New("broker down")})

	err := publisher.Publish(context.Background(), events.New(events.ProgramDeleted, "user1", "p1", nil))
	assert.ErrorContains(t, err, "broker down")
}

func TestNopPublisher(t *testing.T) {
	var p events.NopPublisher
	assert.NoError(t, p.Publish(context.Background(), events.New(events.ProgramCreated, "u", "p", nil)))
	assert.NoError(t, p.Close())
}
