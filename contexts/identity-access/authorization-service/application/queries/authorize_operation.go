package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "libris/contexts/identity-access/authorization-service/application"
	"libris/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "libris/contexts/identity-access/authorization-service/domain/errors"
	"libris/contexts/identity-access/authorization-service/domain/services"
	"libris/contexts/identity-access/authorization-service/ports"
)

// AuthorizeOperationQuery is the request model for one policy decision.
type AuthorizeOperationQuery struct {
	UserID    string
	Operation entities.Operation
}

// AuthorizeOperationUseCase evaluates one operation against a fresh
// membership snapshot. There is no cache: administrative changes apply
// on the very next call.
type AuthorizeOperationUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

// Execute evaluates the operation and returns deny-by-default on lookup
// failures. An unknown operation is an input error, not a deny.
func (u AuthorizeOperationUseCase) Execute(ctx context.Context, query AuthorizeOperationQuery) (entities.Decision, error) {
	if strings.TrimSpace(query.UserID) == "" {
		return entities.Decision{}, domainerrors.ErrInvalidUserID
	}
	required, ok := query.Operation.RequiredPermission()
	if !ok {
		return entities.Decision{}, domainerrors.ErrUnknownOperation
	}

	logger := application.ResolveLogger(u.Logger)
	now := u.now()

	snapshot, err := u.Repository.MembershipSnapshot(ctx, query.UserID)
	if err != nil {
		logger.Error("membership lookup failed, deny by default",
			"event", "authz_membership_lookup_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", query.UserID,
			"operation", string(query.Operation),
			"error", err.Error(),
		)
		return entities.Decision{
			UserID:     query.UserID,
			Operation:  query.Operation,
			Permission: required,
			Allowed:    false,
			Reason:     "deny_by_default",
			CheckedAt:  now,
		}, nil
	}

	allowed := services.GrantsOperation(snapshot, query.Operation)
	reason := "permission_granted"
	if !allowed {
		reason = "permission_missing"
		logger.Warn("operation denied",
			"event", "authz_operation_denied",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", query.UserID,
			"operation", string(query.Operation),
			"permission", string(required),
			"group_count", len(snapshot.Groups),
		)
	} else {
		logger.Debug("operation allowed",
			"event", "authz_operation_allowed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", query.UserID,
			"operation", string(query.Operation),
			"permission", string(required),
		)
	}

	return entities.Decision{
		UserID:     query.UserID,
		Operation:  query.Operation,
		Permission: required,
		Allowed:    allowed,
		Reason:     reason,
		CheckedAt:  now,
	}, nil
}

func (u AuthorizeOperationUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
