package ports

import (
	"context"
	"time"

	"libris/contexts/identity-access/authorization-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for groups and outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Repository reads and mutates the administrative group/permission state.
// MembershipSnapshot must return current state; the policy relies on it
// being re-read per decision.
type Repository interface {
	MembershipSnapshot(ctx context.Context, userID string) (entities.MembershipSnapshot, error)

	CreateGroup(ctx context.Context, group entities.Group) error
	GetGroup(ctx context.Context, groupID string) (entities.Group, error)
	ListGroups(ctx context.Context) ([]entities.Group, error)
	SetGroupPermissions(ctx context.Context, groupID string, permissions []entities.Permission) error
	AddMember(ctx context.Context, groupID string, userID string) error
	RemoveMember(ctx context.Context, groupID string, userID string) error
}

// OutboxMessage is a pending policy-change event row.
type OutboxMessage struct {
	ID        string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// Outbox persists policy-change events alongside the state change; the
// worker relay publishes pending rows to the bus.
type Outbox interface {
	AppendMessage(ctx context.Context, message OutboxMessage) error
	ListPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkPublished(ctx context.Context, messageID string, publishedAt time.Time) error
}
