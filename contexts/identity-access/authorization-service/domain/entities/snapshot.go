package entities

// MembershipSnapshot is a point-in-time read of one user's groups,
// taken fresh for every decision.
type MembershipSnapshot struct {
	UserID string
	Groups []Group
}

// EffectivePermissions is the union of permissions across all groups in
// the snapshot. Duplicate and overlapping grants are idempotent.
func (s MembershipSnapshot) EffectivePermissions() map[Permission]struct{} {
	union := make(map[Permission]struct{})
	for _, group := range s.Groups {
		for _, permission := range group.Permissions {
			union[permission] = struct{}{}
		}
	}
	return union
}
