package queries

import (
	"context"
	"sort"
	"strings"

	"libris/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "libris/contexts/identity-access/authorization-service/domain/errors"
	"libris/contexts/identity-access/authorization-service/ports"
)

// ListEffectivePermissionsUseCase resolves the union of a user's group
// permissions at call time.
type ListEffectivePermissionsUseCase struct {
	Repository ports.Repository
}

func (u ListEffectivePermissionsUseCase) Execute(ctx context.Context, userID string) ([]entities.Permission, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domainerrors.ErrInvalidUserID
	}
	snapshot, err := u.Repository.MembershipSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	union := snapshot.EffectivePermissions()
	permissions := make([]entities.Permission, 0, len(union))
	for permission := range union {
		permissions = append(permissions, permission)
	}
	sort.Slice(permissions, func(i, j int) bool { return permissions[i] < permissions[j] })
	return permissions, nil
}
