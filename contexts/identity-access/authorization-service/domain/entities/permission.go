package entities

// Permission is an atomic capability token granted through group membership.
type Permission string

const (
	PermCanView   Permission = "can_view"
	PermCanCreate Permission = "can_create"
	PermCanEdit   Permission = "can_edit"
	PermCanDelete Permission = "can_delete"
)

// KnownPermissions returns the fixed permission vocabulary in stable order.
func KnownPermissions() []Permission {
	return []Permission{PermCanView, PermCanCreate, PermCanEdit, PermCanDelete}
}

// Known reports whether the permission is part of the fixed vocabulary.
func (p Permission) Known() bool {
	switch p {
	case PermCanView, PermCanCreate, PermCanEdit, PermCanDelete:
		return true
	default:
		return false
	}
}
