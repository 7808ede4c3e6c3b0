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

// CreateGroupCommand is the request model for creating a group.
type CreateGroupCommand struct {
	Name        string
	Permissions []entities.Permission
}

// CreateGroupUseCase creates an administrator-configured group. A group
// with an empty permission set is legal and grants nothing.
type CreateGroupUseCase struct {
	Repository  ports.Repository
	Outbox      ports.Outbox
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateGroupUseCase) Execute(ctx context.Context, command CreateGroupCommand) (entities.Group, error) {
	name := strings.TrimSpace(command.Name)
	if name == "" {
		return entities.Group{}, domainerrors.ErrInvalidGroupName
	}
	permissions, err := normalizePermissions(command.Permissions)
	if err != nil {
		return entities.Group{}, err
	}

	groupID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Group{}, err
	}

	group := entities.Group{
		GroupID:     groupID,
		Name:        name,
		Permissions: permissions,
	}
	if err := u.Repository.CreateGroup(ctx, group); err != nil {
		return entities.Group{}, err
	}

	now := u.now()
	if err := appendPolicyChange(ctx, u.Outbox, u.IDGenerator, now, "authz.group_created", "group", groupID, group); err != nil {
		return entities.Group{}, err
	}

	application.ResolveLogger(u.Logger).Info("group created",
		"event", "authz_group_created",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"group_id", groupID,
		"group_name", name,
		"permission_count", len(permissions),
	)
	return group, nil
}

func (u CreateGroupUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// normalizePermissions deduplicates and validates the requested set.
func normalizePermissions(permissions []entities.Permission) ([]entities.Permission, error) {
	seen := make(map[entities.Permission]struct{}, len(permissions))
	normalized := make([]entities.Permission, 0, len(permissions))
	for _, permission := range permissions {
		if !permission.Known() {
			return nil, domainerrors.ErrUnknownPermission
		}
		if _, ok := seen[permission]; ok {
			continue
		}
		seen[permission] = struct{}{}
		normalized = append(normalized, permission)
	}
	return normalized, nil
}
