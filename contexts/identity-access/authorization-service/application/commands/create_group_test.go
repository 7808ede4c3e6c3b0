package commands

import (
	"context"
	"errors"
	"testing"

	"libris/contexts/identity-access/authorization-service/adapters/memory"
	"libris/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "libris/contexts/identity-access/authorization-service/domain/errors"
)

func TestCreateGroupAndAppendOutbox(t *testing.T) {
	store := memory.NewStore()
	useCase := CreateGroupUseCase{
		Repository:  store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
	}

	group, err := useCase.Execute(context.Background(), CreateGroupCommand{
		Name:        "Archivists",
		Permissions: []entities.Permission{entities.PermCanView, entities.PermCanView, entities.PermCanEdit},
	})
	if err != nil {
		t.Fatalf("create group failed: %v", err)
	}
	if group.GroupID == "" {
		t.Fatal("expected group id")
	}
	if len(group.Permissions) != 2 {
		t.Fatalf("expected deduplicated permissions, got %v", group.Permissions)
	}

	pending, err := store.ListPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "authz.group_created" {
		t.Fatalf("expected one group_created outbox row, got %+v", pending)
	}
}

func TestCreateGroupRejectsUnknownPermission(t *testing.T) {
	store := memory.NewStore()
	useCase := CreateGroupUseCase{
		Repository:  store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
	}

	_, err := useCase.Execute(context.Background(), CreateGroupCommand{
		Name:        "Archivists",
		Permissions: []entities.Permission{"can_fly"},
	})
	if !errors.Is(err, domainerrors.ErrUnknownPermission) {
		t.Fatalf("expected ErrUnknownPermission, got %v", err)
	}
}

func TestCreateGroupRejectsDuplicateName(t *testing.T) {
	store := memory.NewStore()
	useCase := CreateGroupUseCase{
		Repository:  store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
	}

	_, err := useCase.Execute(context.Background(), CreateGroupCommand{Name: entities.GroupViewers})
	if !errors.Is(err, domainerrors.ErrGroupAlreadyExists) {
		t.Fatalf("expected ErrGroupAlreadyExists, got %v", err)
	}
}

func TestAddAndRemoveMember(t *testing.T) {
	store := memory.NewStore()
	add := AddMemberUseCase{Repository: store, Outbox: store, Clock: store, IDGenerator: store}
	remove := RemoveMemberUseCase{Repository: store, Outbox: store, Clock: store, IDGenerator: store}

	err := add.Execute(context.Background(), MembershipCommand{GroupID: "editors", UserID: "user-1"})
	if err != nil {
		t.Fatalf("add member failed: %v", err)
	}

	snapshot, err := store.MembershipSnapshot(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(snapshot.Groups) != 1 || snapshot.Groups[0].Name != entities.GroupEditors {
		t.Fatalf("expected editors membership, got %+v", snapshot.Groups)
	}

	err = remove.Execute(context.Background(), MembershipCommand{GroupID: "editors", UserID: "user-1"})
	if err != nil {
		t.Fatalf("remove member failed: %v", err)
	}

	snapshot, err = store.MembershipSnapshot(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(snapshot.Groups) != 0 {
		t.Fatalf("expected no memberships, got %+v", snapshot.Groups)
	}

	err = remove.Execute(context.Background(), MembershipCommand{GroupID: "editors", UserID: "user-1"})
	if !errors.Is(err, domainerrors.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestAddMemberUnknownGroup(t *testing.T) {
	store := memory.NewStore()
	add := AddMemberUseCase{Repository: store, Outbox: store, Clock: store, IDGenerator: store}

	err := add.Execute(context.Background(), MembershipCommand{GroupID: "ghosts", UserID: "user-1"})
	if !errors.Is(err, domainerrors.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}
