package queries

import (
	"context"
	"errors"
	"testing"

	"libris/contexts/identity-access/authorization-service/adapters/memory"
	"libris/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "libris/contexts/identity-access/authorization-service/domain/errors"
)

func TestAuthorizeViewerAllowedViewOnly(t *testing.T) {
	store := memory.NewStore()
	if err := store.AddMember(context.Background(), "viewers", "user-1"); err != nil {
		t.Fatalf("add member failed: %v", err)
	}
	useCase := AuthorizeOperationUseCase{Repository: store, Clock: store}

	decision, err := useCase.Execute(context.Background(), AuthorizeOperationQuery{
		UserID:    "user-1",
		Operation: entities.OpViewBooks,
	})
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if !decision.Allowed || decision.Reason != "permission_granted" {
		t.Fatalf("expected view allowed, got %+v", decision)
	}

	decision, err = useCase.Execute(context.Background(), AuthorizeOperationQuery{
		UserID:    "user-1",
		Operation: entities.OpDeleteBook,
	})
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if decision.Allowed || decision.Reason != "permission_missing" {
		t.Fatalf("expected delete denied, got %+v", decision)
	}
	if decision.Permission != entities.PermCanDelete {
		t.Fatalf("expected required permission can_delete, got %s", decision.Permission)
	}
}

func TestAuthorizeUserWithoutGroupsDeniedEverything(t *testing.T) {
	store := memory.NewStore()
	useCase := AuthorizeOperationUseCase{Repository: store, Clock: store}

	for _, operation := range entities.Operations() {
		decision, err := useCase.Execute(context.Background(), AuthorizeOperationQuery{
			UserID:    "nobody",
			Operation: operation,
		})
		if err != nil {
			t.Fatalf("authorize %s failed: %v", operation, err)
		}
		if decision.Allowed {
			t.Fatalf("expected %s denied for groupless user", operation)
		}
	}
}

func TestAuthorizePolicyChangeVisibleImmediately(t *testing.T) {
	store := memory.NewStore()
	if err := store.AddMember(context.Background(), "viewers", "user-1"); err != nil {
		t.Fatalf("add member failed: %v", err)
	}
	useCase := AuthorizeOperationUseCase{Repository: store, Clock: store}

	decision, err := useCase.Execute(context.Background(), AuthorizeOperationQuery{
		UserID:    "user-1",
		Operation: entities.OpEditBook,
	})
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected edit denied before grant")
	}

	err = store.SetGroupPermissions(context.Background(), "viewers", []entities.Permission{
		entities.PermCanView,
		entities.PermCanEdit,
	})
	if err != nil {
		t.Fatalf("set permissions failed: %v", err)
	}

	decision, err = useCase.Execute(context.Background(), AuthorizeOperationQuery{
		UserID:    "user-1",
		Operation: entities.OpEditBook,
	})
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("expected edit allowed on the evaluation after the grant")
	}
}

func TestAuthorizeUnknownOperationIsInputError(t *testing.T) {
	store := memory.NewStore()
	useCase := AuthorizeOperationUseCase{Repository: store, Clock: store}

	_, err := useCase.Execute(context.Background(), AuthorizeOperationQuery{
		UserID:    "user-1",
		Operation: entities.Operation("publish_book"),
	})
	if !errors.Is(err, domainerrors.ErrUnknownOperation) {
		t.Fatalf("expected ErrUnknownOperation, got %v", err)
	}
}

func TestAuthorizeRequiresUserID(t *testing.T) {
	store := memory.NewStore()
	useCase := AuthorizeOperationUseCase{Repository: store, Clock: store}

	_, err := useCase.Execute(context.Background(), AuthorizeOperationQuery{
		Operation: entities.OpViewBooks,
	})
	if !errors.Is(err, domainerrors.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

type failingRepository struct{}

func (failingRepository) MembershipSnapshot(context.Context, string) (entities.MembershipSnapshot, error) {
	return entities.MembershipSnapshot{}, errors.New("storage unavailable")
}
func (failingRepository) CreateGroup(context.Context, entities.Group) error { return nil }
func (failingRepository) GetGroup(context.Context, string) (entities.Group, error) {
	return entities.Group{}, nil
}
func (failingRepository) ListGroups(context.Context) ([]entities.Group, error) { return nil, nil }
func (failingRepository) SetGroupPermissions(context.Context, string, []entities.Permission) error {
	return nil
}
func (failingRepository) AddMember(context.Context, string, string) error    { return nil }
func (failingRepository) RemoveMember(context.Context, string, string) error { return nil }

func TestAuthorizeDeniesByDefaultOnLookupFailure(t *testing.T) {
	useCase := AuthorizeOperationUseCase{Repository: failingRepository{}}

	decision, err := useCase.Execute(context.Background(), AuthorizeOperationQuery{
		UserID:    "user-1",
		Operation: entities.OpViewBooks,
	})
	if err != nil {
		t.Fatalf("expected deny-by-default, got error %v", err)
	}
	if decision.Allowed || decision.Reason != "deny_by_default" {
		t.Fatalf("expected deny_by_default, got %+v", decision)
	}
}

func TestListEffectivePermissionsUnion(t *testing.T) {
	store := memory.NewStore()
	if err := store.AddMember(context.Background(), "viewers", "user-1"); err != nil {
		t.Fatalf("add member failed: %v", err)
	}
	if err := store.AddMember(context.Background(), "editors", "user-1"); err != nil {
		t.Fatalf("add member failed: %v", err)
	}

	useCase := ListEffectivePermissionsUseCase{Repository: store}
	permissions, err := useCase.Execute(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list effective permissions failed: %v", err)
	}

	want := []entities.Permission{entities.PermCanCreate, entities.PermCanEdit, entities.PermCanView}
	if len(permissions) != len(want) {
		t.Fatalf("expected %d permissions, got %v", len(want), permissions)
	}
	for i, permission := range want {
		if permissions[i] != permission {
			t.Fatalf("expected %v, got %v", want, permissions)
		}
	}
}
