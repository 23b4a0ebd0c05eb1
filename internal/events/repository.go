package events

import (
	"context"
	"encoding/json"
	"time"

	"eventmarket/pkg/db"
)

const (
	EntityBooking = "booking"
	EntityLead    = "lead"
)

const TypeStatusChanged = "STATUS_CHANGED"

type Event struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	EventType  string          `json:"eventType"`
	Summary    string          `json:"summary"`
	Actor      string          `json:"actor"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func Insert(ctx context.Context, q db.Querier, entityType, entityID, eventType, summary, actor string, occurredAt time.Time, data any) error {
	var s *string
	if data != nil {
		b, _ := json.Marshal(data)
		str := string(b)
		s = &str
	}
	const stmt = `
INSERT INTO activity_events (entity_type, entity_id, event_type, summary, actor, occurred_at, data)
VALUES ($1, $2, $3, $4, $5, $6, CAST($7 AS jsonb))
`
	_, err := q.Exec(ctx, stmt, entityType, entityID, eventType, summary, actor, occurredAt, s)
	return err
}

func ListByEntity(ctx context.Context, q db.Querier, entityType, entityID string) ([]Event, error) {
	const stmt = `
SELECT id, entity_type, entity_id, event_type, summary, actor, occurred_at, COALESCE(data, '{}'::jsonb)
FROM activity_events
WHERE entity_type = $1 AND entity_id = $2
ORDER BY occurred_at ASC, created_at ASC
`
	rows, err := q.Query(ctx, stmt, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.EventType, &e.Summary, &e.Actor, &e.OccurredAt, &e.Data); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// StatusChange builds the event recorded for a status transition.
func StatusChange(entityType, entityID, from, to, actor string, at time.Time) Event {
	data, _ := json.Marshal(map[string]string{"from": from, "to": to})
	return Event{
		EntityType: entityType,
		EntityID:   entityID,
		EventType:  TypeStatusChanged,
		Summary:    "Status changed from " + from + " to " + to,
		Actor:      actor,
		OccurredAt: at,
		Data:       data,
	}
}
