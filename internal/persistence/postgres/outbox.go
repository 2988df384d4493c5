package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// eventTopics routes event types to Kafka topics. Partition keys keep one
// user's events ordered within a topic.
var eventTopics = map[string]string{
	"workout.logged":    "fitness_events",
	"attendance.closed": "fitness_events",
	"order.placed":      "store_events",
}

// insertEvent records an outbox row inside the caller's transaction so the
// event commits atomically with the state change that produced it.
func insertEvent(ctx context.Context, tx pgx.Tx, aggregateType, aggregateID, eventType, partitionKey string, payload interface{}) error {
	topic, ok := eventTopics[eventType]
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	dedupeKey := fmt.Sprintf("%s:%s", aggregateID, eventType)

	const stmt = `INSERT INTO outbox (aggregate_type, aggregate_id, event_type, topic, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err = tx.Exec(ctx, stmt, aggregateType, aggregateID, eventType, topic, partitionKey, body, dedupeKey)
	return err
}
