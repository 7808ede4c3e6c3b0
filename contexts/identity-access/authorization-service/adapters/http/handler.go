package httpadapter

import (
	"context"
	"log/slog"

	application "libris/contexts/identity-access/authorization-service/application"
	"libris/contexts/identity-access/authorization-service/application/commands"
	"libris/contexts/identity-access/authorization-service/application/queries"
	"libris/contexts/identity-access/authorization-service/domain/entities"
	httptransport "libris/contexts/identity-access/authorization-service/transport/http"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	Authorize            queries.AuthorizeOperationUseCase
	EffectivePermissions queries.ListEffectivePermissionsUseCase
	Groups               queries.ListGroupsUseCase
	UserGroups           queries.ListUserGroupsUseCase
	CreateGroup          commands.CreateGroupUseCase
	SetGroupPermissions  commands.SetGroupPermissionsUseCase
	AddMember            commands.AddMemberUseCase
	RemoveMember         commands.RemoveMemberUseCase
	Logger               *slog.Logger
}

// AuthorizeHandler evaluates one operation for one user.
func (h Handler) AuthorizeHandler(
	ctx context.Context,
	userID string,
	request httptransport.AuthorizeRequest,
) (httptransport.AuthorizeResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http authorize received",
		"event", "authz_http_authorize_received",
		"module", "identity-access/authorization-service",
		"layer", "transport",
		"user_id", userID,
		"operation", request.Operation,
	)

	decision, err := h.Authorize.Execute(ctx, queries.AuthorizeOperationQuery{
		UserID:    userID,
		Operation: entities.Operation(request.Operation),
	})
	if err != nil {
		logger.Error("http authorize failed",
			"event", "authz_http_authorize_failed",
			"module", "identity-access/authorization-service",
			"layer", "transport",
			"user_id", userID,
			"operation", request.Operation,
			"error", err.Error(),
		)
		return httptransport.AuthorizeResponse{}, err
	}
	return httptransport.AuthorizeResponse{
		UserID:     decision.UserID,
		Operation:  string(decision.Operation),
		Permission: string(decision.Permission),
		Allowed:    decision.Allowed,
		Reason:     decision.Reason,
		CheckedAt:  decision.CheckedAt,
	}, nil
}

// AuthorizeOperation is the in-process gate used by the request layer in
// front of book handlers.
func (h Handler) AuthorizeOperation(ctx context.Context, userID string, operation entities.Operation) (bool, error) {
	decision, err := h.Authorize.Execute(ctx, queries.AuthorizeOperationQuery{
		UserID:    userID,
		Operation: operation,
	})
	if err != nil {
		return false, err
	}
	return decision.Allowed, nil
}

// ListEffectivePermissionsHandler returns the union of the user's group permissions.
func (h Handler) ListEffectivePermissionsHandler(ctx context.Context, userID string) (httptransport.ListEffectivePermissionsResponse, error) {
	permissions, err := h.EffectivePermissions.Execute(ctx, userID)
	if err != nil {
		return httptransport.ListEffectivePermissionsResponse{}, err
	}
	items := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		items = append(items, string(permission))
	}
	return httptransport.ListEffectivePermissionsResponse{
		UserID:      userID,
		Permissions: items,
	}, nil
}

// ListGroupsHandler returns all administrator-configured groups.
func (h Handler) ListGroupsHandler(ctx context.Context) (httptransport.ListGroupsResponse, error) {
	groups, err := h.Groups.Execute(ctx)
	if err != nil {
		return httptransport.ListGroupsResponse{}, err
	}
	return httptransport.ListGroupsResponse{Groups: groupDTOs(groups)}, nil
}

// ListUserGroupsHandler returns the groups a user belongs to.
func (h Handler) ListUserGroupsHandler(ctx context.Context, userID string) (httptransport.ListUserGroupsResponse, error) {
	groups, err := h.UserGroups.Execute(ctx, userID)
	if err != nil {
		return httptransport.ListUserGroupsResponse{}, err
	}
	return httptransport.ListUserGroupsResponse{
		UserID: userID,
		Groups: groupDTOs(groups),
	}, nil
}

// CreateGroupHandler creates a group from the admin surface.
func (h Handler) CreateGroupHandler(ctx context.Context, request httptransport.CreateGroupRequest) (httptransport.GroupDTO, error) {
	group, err := h.CreateGroup.Execute(ctx, commands.CreateGroupCommand{
		Name:        request.Name,
		Permissions: permissionsFromStrings(request.Permissions),
	})
	if err != nil {
		return httptransport.GroupDTO{}, err
	}
	return groupDTO(group), nil
}

// SetGroupPermissionsHandler replaces a group's permission set.
func (h Handler) SetGroupPermissionsHandler(
	ctx context.Context,
	groupID string,
	request httptransport.SetGroupPermissionsRequest,
) (httptransport.GroupDTO, error) {
	group, err := h.SetGroupPermissions.Execute(ctx, commands.SetGroupPermissionsCommand{
		GroupID:     groupID,
		Permissions: permissionsFromStrings(request.Permissions),
	})
	if err != nil {
		return httptransport.GroupDTO{}, err
	}
	return groupDTO(group), nil
}

// AddMemberHandler assigns a user to a group.
func (h Handler) AddMemberHandler(ctx context.Context, groupID string, request httptransport.MembershipRequest) error {
	return h.AddMember.Execute(ctx, commands.MembershipCommand{
		GroupID: groupID,
		UserID:  request.UserID,
	})
}

// RemoveMemberHandler removes a user from a group.
func (h Handler) RemoveMemberHandler(ctx context.Context, groupID string, userID string) error {
	return h.RemoveMember.Execute(ctx, commands.MembershipCommand{
		GroupID: groupID,
		UserID:  userID,
	})
}

func permissionsFromStrings(values []string) []entities.Permission {
	permissions := make([]entities.Permission, 0, len(values))
	for _, value := range values {
		permissions = append(permissions, entities.Permission(value))
	}
	return permissions
}

func groupDTO(group entities.Group) httptransport.GroupDTO {
	permissions := make([]string, 0, len(group.Permissions))
	for _, permission := range group.Permissions {
		permissions = append(permissions, string(permission))
	}
	return httptransport.GroupDTO{
		GroupID:     group.GroupID,
		Name:        group.Name,
		Permissions: permissions,
	}
}

func groupDTOs(groups []entities.Group) []httptransport.GroupDTO {
	items := make([]httptransport.GroupDTO, 0, len(groups))
	for _, group := range groups {
		items = append(items, groupDTO(group))
	}
	return items
}
