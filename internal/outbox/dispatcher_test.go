package outbox

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type recordingWriter struct {
	batches map[string][]kafka.Message
	err     error
}

func (w *recordingWriter) WriteMessages(_ context.Context, topic string, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	if w.batches == nil {
		w.batches = make(map[string][]kafka.Message)
	}
	w.batches[topic] = append(w.batches[topic], msgs...)
	return nil
}

func testDispatcher(producer messageWriter) *Dispatcher {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewDispatcher(nil, producer, 0, 10, logrus.NewEntry(log))
}

func TestDeliverBatchesPerTopic(t *testing.T) {
	writer := &recordingWriter{}
	d := testDispatcher(writer)

	messages := []Message{
		{EventID: 1, Topic: "fitness_events", EventType: "workout.logged", PartitionKey: "user-1", Payload: []byte(`{}`)},
		{EventID: 2, Topic: "store_events", EventType: "order.placed", PartitionKey: "user-1", Payload: []byte(`{}`)},
		{EventID: 3, Topic: "fitness_events", EventType: "attendance.closed", PartitionKey: "user-2", Payload: []byte(`{}`)},
	}

	if err := d.deliver(context.Background(), messages); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(writer.batches["fitness_events"]); got != 2 {
		t.Fatalf("expected 2 fitness_events messages got %d", got)
	}
	if got := len(writer.batches["store_events"]); got != 1 {
		t.Fatalf("expected 1 store_events message got %d", got)
	}

	first := writer.batches["fitness_events"][0]
	if string(first.Key) != "user-1" {
		t.Fatalf("unexpected partition key %q", first.Key)
	}
	if len(first.Headers) != 2 || first.Headers[0].Key != "event_type" {
		t.Fatalf("unexpected headers %+v", first.Headers)
	}
	if string(first.Headers[0].Value) != "workout.logged" {
		t.Fatalf("unexpected event type header %q", first.Headers[0].Value)
	}
}

func TestDeliverPropagatesWriterError(t *testing.T) {
	wantErr := errors.New("broker down")
	d := testDispatcher(&recordingWriter{err: wantErr})

	err := d.deliver(context.Background(), []Message{{EventID: 1, Topic: "fitness_events", Payload: []byte(`{}`)}})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected writer error got %v", err)
	}
}
