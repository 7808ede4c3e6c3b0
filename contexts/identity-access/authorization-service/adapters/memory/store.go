package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"libris/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "libris/contexts/identity-access/authorization-service/domain/errors"
	"libris/contexts/identity-access/authorization-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the repository and outbox
// ports. It is intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	groups      map[string]entities.Group
	memberships map[string]map[string]struct{} // group id -> user ids

	outbox    map[string]outboxRow
	published map[string]time.Time
}

type outboxRow struct {
	ports.OutboxMessage
	PublishedAt *time.Time
}

// NewStore builds a deterministic in-memory adapter seeded with the
// baseline groups.
func NewStore() *Store {
	groups := map[string]entities.Group{
		"viewers": {
			GroupID:     "viewers",
			Name:        entities.GroupViewers,
			Permissions: []entities.Permission{entities.PermCanView},
		},
		"editors": {
			GroupID:     "editors",
			Name:        entities.GroupEditors,
			Permissions: []entities.Permission{entities.PermCanCreate, entities.PermCanEdit},
		},
		"admins": {
			GroupID: "admins",
			Name:    entities.GroupAdmins,
			Permissions: []entities.Permission{
				entities.PermCanView,
				entities.PermCanCreate,
				entities.PermCanEdit,
				entities.PermCanDelete,
			},
		},
	}
	return &Store{
		groups:      groups,
		memberships: make(map[string]map[string]struct{}),
		outbox:      make(map[string]outboxRow),
		published:   make(map[string]time.Time),
	}
}

// MembershipSnapshot resolves the user's groups at call time.
func (s *Store) MembershipSnapshot(_ context.Context, userID string) (entities.MembershipSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := entities.MembershipSnapshot{UserID: userID}
	for groupID, members := range s.memberships {
		if _, ok := members[userID]; !ok {
			continue
		}
		group, ok := s.groups[groupID]
		if !ok {
			continue
		}
		snapshot.Groups = append(snapshot.Groups, cloneGroup(group))
	}
	sort.Slice(snapshot.Groups, func(i, j int) bool { return snapshot.Groups[i].Name < snapshot.Groups[j].Name })
	return snapshot, nil
}

func (s *Store) CreateGroup(_ context.Context, group entities.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[group.GroupID]; ok {
		return domainerrors.ErrGroupAlreadyExists
	}
	for _, existing := range s.groups {
		if existing.Name == group.Name {
			return domainerrors.ErrGroupAlreadyExists
		}
	}
	s.groups[group.GroupID] = cloneGroup(group)
	return nil
}

func (s *Store) GetGroup(_ context.Context, groupID string) (entities.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[groupID]
	if !ok {
		return entities.Group{}, domainerrors.ErrGroupNotFound
	}
	return cloneGroup(group), nil
}

func (s *Store) ListGroups(_ context.Context) ([]entities.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]entities.Group, 0, len(s.groups))
	for _, group := range s.groups {
		groups = append(groups, cloneGroup(group))
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func (s *Store) SetGroupPermissions(_ context.Context, groupID string, permissions []entities.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[groupID]
	if !ok {
		return domainerrors.ErrGroupNotFound
	}
	group.Permissions = append([]entities.Permission(nil), permissions...)
	s.groups[groupID] = group
	return nil
}

func (s *Store) AddMember(_ context.Context, groupID string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return domainerrors.ErrGroupNotFound
	}
	members, ok := s.memberships[groupID]
	if !ok {
		members = make(map[string]struct{})
		s.memberships[groupID] = members
	}
	members[userID] = struct{}{}
	return nil
}

func (s *Store) RemoveMember(_ context.Context, groupID string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return domainerrors.ErrGroupNotFound
	}
	members := s.memberships[groupID]
	if _, ok := members[userID]; !ok {
		return domainerrors.ErrMemberNotFound
	}
	delete(members, userID)
	return nil
}

func (s *Store) AppendMessage(_ context.Context, message ports.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outbox[message.ID] = outboxRow{OutboxMessage: message}
	return nil
}

func (s *Store) ListPending(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.PublishedAt != nil {
			continue
		}
		pending = append(pending, row.OutboxMessage)
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *Store) MarkPublished(_ context.Context, messageID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[messageID]
	if !ok {
		return nil
	}
	at := publishedAt
	row.PublishedAt = &at
	s.outbox[messageID] = row
	return nil
}

// Now implements ports.Clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID implements ports.IDGenerator.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneGroup(group entities.Group) entities.Group {
	group.Permissions = append([]entities.Permission(nil), group.Permissions...)
	return group
}
