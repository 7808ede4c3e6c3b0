package commands

import (
	"context"
	"encoding/json"
	"time"

	"libris/contexts/identity-access/authorization-service/ports"
	"libris/internal/shared/events"
)

// appendPolicyChange records a policy-change event in the outbox. Relay to
// the bus happens out of band in the worker.
func appendPolicyChange(
	ctx context.Context,
	outbox ports.Outbox,
	generator ports.IDGenerator,
	now time.Time,
	eventType string,
	entityType string,
	entityID string,
	payload any,
) error {
	if outbox == nil {
		return nil
	}
	eventID, err := generator.NewID(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(events.Envelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  "identity-access/authorization-service",
		OccurredAtUTC:  now,
		EntityType:     entityType,
		EntityID:       entityID,
		PayloadVersion: 1,
		Payload:        payload,
	})
	if err != nil {
		return err
	}
	return outbox.AppendMessage(ctx, ports.OutboxMessage{
		ID:        eventID,
		EventType: eventType,
		Payload:   raw,
		CreatedAt: now,
	})
}
