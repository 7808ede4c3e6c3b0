package entities

// Group is a named, administrator-configured set of permissions.
// Group membership and the permission set are external administrative
// state; the policy only reads them.
type Group struct {
	GroupID     string       `json:"group_id"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
}

// Names of the seeded baseline groups.
const (
	GroupViewers = "Viewers"
	GroupEditors = "Editors"
	GroupAdmins  = "Admins"
)
