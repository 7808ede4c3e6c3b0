package queries

import (
	"context"
	"strings"

	"libris/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "libris/contexts/identity-access/authorization-service/domain/errors"
	"libris/contexts/identity-access/authorization-service/ports"
)

// ListGroupsUseCase returns all administrator-configured groups.
type ListGroupsUseCase struct {
	Repository ports.Repository
}

func (u ListGroupsUseCase) Execute(ctx context.Context) ([]entities.Group, error) {
	return u.Repository.ListGroups(ctx)
}

// ListUserGroupsUseCase returns the groups one user belongs to.
type ListUserGroupsUseCase struct {
	Repository ports.Repository
}

func (u ListUserGroupsUseCase) Execute(ctx context.Context, userID string) ([]entities.Group, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domainerrors.ErrInvalidUserID
	}
	snapshot, err := u.Repository.MembershipSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snapshot.Groups, nil
}
