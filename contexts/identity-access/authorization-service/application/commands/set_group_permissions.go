package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "libris/contexts/identity-access/authorization-service/application"
	"libris/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "libris/contexts/identity-access/authorization-service/domain/errors"
	"libris/contexts/identity-access/authorization-service/ports"
)

// SetGroupPermissionsCommand replaces a group's permission set.
type SetGroupPermissionsCommand struct {
	GroupID     string
	Permissions []entities.Permission
}

// SetGroupPermissionsUseCase updates the administrative permission set.
// The change is visible to members on their next authorize call.
type SetGroupPermissionsUseCase struct {
	Repository  ports.Repository
	Outbox      ports.Outbox
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u SetGroupPermissionsUseCase) Execute(ctx context.Context, command SetGroupPermissionsCommand) (entities.Group, error) {
	groupID := strings.TrimSpace(command.GroupID)
	if groupID == "" {
		return entities.Group{}, domainerrors.ErrGroupNotFound
	}
	permissions, err := normalizePermissions(command.Permissions)
	if err != nil {
		return entities.Group{}, err
	}

	if err := u.Repository.SetGroupPermissions(ctx, groupID, permissions); err != nil {
		return entities.Group{}, err
	}
	group, err := u.Repository.GetGroup(ctx, groupID)
	if err != nil {
		return entities.Group{}, err
	}

	now := u.now()
	if err := appendPolicyChange(ctx, u.Outbox, u.IDGenerator, now, "authz.group_permissions_set", "group", groupID, group); err != nil {
		return entities.Group{}, err
	}

	application.ResolveLogger(u.Logger).Info("group permissions set",
		"event", "authz_group_permissions_set",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"group_id", groupID,
		"permission_count", len(permissions),
	)
	return group, nil
}

func (u SetGroupPermissionsUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
