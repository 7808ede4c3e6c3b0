package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "libris/contexts/identity-access/authorization-service/application"
	domainerrors "libris/contexts/identity-access/authorization-service/domain/errors"
	"libris/contexts/identity-access/authorization-service/ports"
)

// MembershipCommand identifies one user/group pair.
type MembershipCommand struct {
	GroupID string
	UserID  string
}

type membershipPayload struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

// AddMemberUseCase assigns a user to a group. Re-adding an existing
// member is a no-op; effective permissions are a union either way.
type AddMemberUseCase struct {
	Repository  ports.Repository
	Outbox      ports.Outbox
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u AddMemberUseCase) Execute(ctx context.Context, command MembershipCommand) error {
	groupID, userID, err := validateMembership(command)
	if err != nil {
		return err
	}
	if err := u.Repository.AddMember(ctx, groupID, userID); err != nil {
		return err
	}
	now := u.now()
	if err := appendPolicyChange(ctx, u.Outbox, u.IDGenerator, now, "authz.member_added", "group", groupID, membershipPayload{GroupID: groupID, UserID: userID}); err != nil {
		return err
	}
	application.ResolveLogger(u.Logger).Info("member added",
		"event", "authz_member_added",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"group_id", groupID,
		"user_id", userID,
	)
	return nil
}

func (u AddMemberUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// RemoveMemberUseCase removes a user from a group.
type RemoveMemberUseCase struct {
	Repository  ports.Repository
	Outbox      ports.Outbox
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u RemoveMemberUseCase) Execute(ctx context.Context, command MembershipCommand) error {
	groupID, userID, err := validateMembership(command)
	if err != nil {
		return err
	}
	if err := u.Repository.RemoveMember(ctx, groupID, userID); err != nil {
		return err
	}
	now := u.now()
	if err := appendPolicyChange(ctx, u.Outbox, u.IDGenerator, now, "authz.member_removed", "group", groupID, membershipPayload{GroupID: groupID, UserID: userID}); err != nil {
		return err
	}
	application.ResolveLogger(u.Logger).Info("member removed",
		"event", "authz_member_removed",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"group_id", groupID,
		"user_id", userID,
	)
	return nil
}

func (u RemoveMemberUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func validateMembership(command MembershipCommand) (string, string, error) {
	groupID := strings.TrimSpace(command.GroupID)
	if groupID == "" {
		return "", "", domainerrors.ErrGroupNotFound
	}
	userID := strings.TrimSpace(command.UserID)
	if userID == "" {
		return "", "", domainerrors.ErrInvalidUserID
	}
	return groupID, userID, nil
}
