package services

import (
	"testing"

	"libris/contexts/identity-access/authorization-service/domain/entities"
)

func viewers() entities.Group {
	return entities.Group{
		GroupID:     "viewers",
		Name:        entities.GroupViewers,
		Permissions: []entities.Permission{entities.PermCanView},
	}
}

func editors() entities.Group {
	return entities.Group{
		GroupID:     "editors",
		Name:        entities.GroupEditors,
		Permissions: []entities.Permission{entities.PermCanCreate, entities.PermCanEdit},
	}
}

func admins() entities.Group {
	return entities.Group{
		GroupID: "admins",
		Name:    entities.GroupAdmins,
		Permissions: []entities.Permission{
			entities.PermCanView,
			entities.PermCanCreate,
			entities.PermCanEdit,
			entities.PermCanDelete,
		},
	}
}

func TestGrantsOperationPerGroup(t *testing.T) {
	cases := []struct {
		name    string
		groups  []entities.Group
		allowed map[entities.Operation]bool
	}{
		{
			name:   "no groups denies everything",
			groups: nil,
			allowed: map[entities.Operation]bool{
				entities.OpViewBooks:  false,
				entities.OpCreateBook: false,
				entities.OpEditBook:   false,
				entities.OpDeleteBook: false,
			},
		},
		{
			name:   "viewers may only view",
			groups: []entities.Group{viewers()},
			allowed: map[entities.Operation]bool{
				entities.OpViewBooks:  true,
				entities.OpCreateBook: false,
				entities.OpEditBook:   false,
				entities.OpDeleteBook: false,
			},
		},
		{
			name:   "editors may create and edit only",
			groups: []entities.Group{editors()},
			allowed: map[entities.Operation]bool{
				entities.OpViewBooks:  false,
				entities.OpCreateBook: true,
				entities.OpEditBook:   true,
				entities.OpDeleteBook: false,
			},
		},
		{
			name:   "admins may do everything",
			groups: []entities.Group{admins()},
			allowed: map[entities.Operation]bool{
				entities.OpViewBooks:  true,
				entities.OpCreateBook: true,
				entities.OpEditBook:   true,
				entities.OpDeleteBook: true,
			},
		},
		{
			name:   "viewers plus editors union",
			groups: []entities.Group{viewers(), editors()},
			allowed: map[entities.Operation]bool{
				entities.OpViewBooks:  true,
				entities.OpCreateBook: true,
				entities.OpEditBook:   true,
				entities.OpDeleteBook: false,
			},
		},
		{
			name: "empty group contributes nothing",
			groups: []entities.Group{{
				GroupID: "empty",
				Name:    "Empty",
			}},
			allowed: map[entities.Operation]bool{
				entities.OpViewBooks:  false,
				entities.OpCreateBook: false,
				entities.OpEditBook:   false,
				entities.OpDeleteBook: false,
			},
		},
		{
			name:   "duplicate memberships are idempotent",
			groups: []entities.Group{viewers(), viewers()},
			allowed: map[entities.Operation]bool{
				entities.OpViewBooks:  true,
				entities.OpCreateBook: false,
				entities.OpEditBook:   false,
				entities.OpDeleteBook: false,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := entities.MembershipSnapshot{UserID: "user-1", Groups: tc.groups}
			for operation, want := range tc.allowed {
				if got := GrantsOperation(snapshot, operation); got != want {
					t.Fatalf("operation %s: expected allowed=%v, got %v", operation, want, got)
				}
			}
		})
	}
}

func TestGrantsOperationMatchesRequiredPermission(t *testing.T) {
	// The decision must equal required-permission membership in the union.
	for _, operation := range entities.Operations() {
		required, ok := operation.RequiredPermission()
		if !ok {
			t.Fatalf("operation %s has no required permission", operation)
		}
		for _, permission := range entities.KnownPermissions() {
			snapshot := entities.MembershipSnapshot{
				UserID: "user-1",
				Groups: []entities.Group{{
					GroupID:     "g",
					Name:        "G",
					Permissions: []entities.Permission{permission},
				}},
			}
			want := permission == required
			if got := GrantsOperation(snapshot, operation); got != want {
				t.Fatalf("operation %s with only %s: expected %v, got %v", operation, permission, want, got)
			}
		}
	}
}

func TestGrantsOperationMonotonicity(t *testing.T) {
	// Adding a permission to a member group never flips an allow to a deny
	// and never changes decisions for other operations.
	base := entities.Group{
		GroupID:     "g",
		Name:        "G",
		Permissions: []entities.Permission{entities.PermCanView},
	}
	before := entities.MembershipSnapshot{UserID: "user-1", Groups: []entities.Group{base}}

	grown := base
	grown.Permissions = append(append([]entities.Permission(nil), base.Permissions...), entities.PermCanEdit)
	after := entities.MembershipSnapshot{UserID: "user-1", Groups: []entities.Group{grown}}

	for _, operation := range entities.Operations() {
		wasAllowed := GrantsOperation(before, operation)
		nowAllowed := GrantsOperation(after, operation)
		if wasAllowed && !nowAllowed {
			t.Fatalf("operation %s: adding a permission revoked an allow", operation)
		}
		required, _ := operation.RequiredPermission()
		if required != entities.PermCanEdit && wasAllowed != nowAllowed {
			t.Fatalf("operation %s: unrelated decision changed from %v to %v", operation, wasAllowed, nowAllowed)
		}
	}
	if !GrantsOperation(after, entities.OpEditBook) {
		t.Fatal("expected edit_book allowed after granting can_edit")
	}
}

func TestGrantsOperationUnknownOperation(t *testing.T) {
	snapshot := entities.MembershipSnapshot{UserID: "user-1", Groups: []entities.Group{admins()}}
	if GrantsOperation(snapshot, entities.Operation("publish_book")) {
		t.Fatal("unknown operation must never be granted")
	}
}

func TestValidateOperationTable(t *testing.T) {
	if err := ValidateOperationTable(); err != nil {
		t.Fatalf("operation table invalid: %v", err)
	}
}
