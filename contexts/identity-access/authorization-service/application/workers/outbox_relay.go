package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	"libris/contexts/identity-access/authorization-service/ports"
	"libris/internal/shared/events"
)

// Publisher is the bus-facing side of the relay.
type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// OutboxRelay drains pending policy-change rows and publishes them to the
// bus. Rows are marked published only after a successful publish, so a
// crash between the two repeats the event rather than losing it.
type OutboxRelay struct {
	Outbox    ports.Outbox
	Publisher Publisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	pending, err := r.Outbox.ListPending(ctx, limit)
	if err != nil {
		return err
	}

	for _, message := range pending {
		var envelope events.Envelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			// Malformed rows would wedge the relay; mark them published
			// and surface the problem in the log.
			r.logger().Error("discarding malformed outbox row",
				"event", "authz_outbox_malformed",
				"module", "identity-access/authorization-service",
				"layer", "application",
				"message_id", message.ID,
				"error", err.Error(),
			)
			if err := r.Outbox.MarkPublished(ctx, message.ID, r.Clock.Now()); err != nil {
				return err
			}
			continue
		}

		if err := r.Publisher.Publish(ctx, r.Topic, envelope); err != nil {
			return err
		}
		if err := r.Outbox.MarkPublished(ctx, message.ID, r.Clock.Now()); err != nil {
			return err
		}
	}

	if len(pending) > 0 {
		r.logger().Info("outbox batch relayed",
			"event", "authz_outbox_relayed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"count", len(pending),
		)
	}
	return nil
}

func (r OutboxRelay) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
