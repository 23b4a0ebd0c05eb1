package audit

import (
	"context"
	"encoding/json"

	"eventmarket/pkg/db"
)

const (
	ActionLeadUpdated    = "LEAD_UPDATED"
	ActionLeadNoteAdded  = "LEAD_NOTE_ADDED"
	ActionLeadDeleted    = "LEAD_DELETED"
	ActionListingDeleted = "LISTING_DELETED"
)

func Insert(ctx context.Context, q db.Querier, actorID, entityType, entityID, action string, metadata any) error {
	var s *string
	if metadata != nil {
		b, _ := json.Marshal(metadata)
		str := string(b)
		s = &str
	}
	const stmt = `
INSERT INTO audit_logs (actor_id, entity_type, entity_id, action, metadata)
VALUES ($1, $2, $3, $4, CAST($5 AS jsonb))
`
	_, err := q.Exec(ctx, stmt, actorID, entityType, entityID, action, s)
	return err
}
