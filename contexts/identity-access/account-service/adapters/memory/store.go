package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainerrors "libris/contexts/identity-access/account-service/domain/errors"
	"libris/contexts/identity-access/account-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the repository and token
// store ports. It is intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	users     map[string]ports.User
	usernames map[string]string // username -> user id
	tokens    map[string]ports.Token
	follows   map[string]map[string]struct{} // follower -> followees
}

func NewStore() *Store {
	return &Store{
		users:     make(map[string]ports.User),
		usernames: make(map[string]string),
		tokens:    make(map[string]ports.Token),
		follows:   make(map[string]map[string]struct{}),
	}
}

func (s *Store) CreateUser(_ context.Context, user ports.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernames[user.Username]; ok {
		return domainerrors.ErrUsernameTaken
	}
	s.users[user.UserID] = user
	s.usernames[user.Username] = user.UserID
	return nil
}

func (s *Store) GetUserByID(_ context.Context, userID string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.usernames[username]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return s.users[userID], nil
}

func (s *Store) UpdateProfile(_ context.Context, userID string, input ports.UpdateProfileInput, now time.Time) (ports.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	if input.DisplayName != "" {
		user.DisplayName = input.DisplayName
	}
	user.Bio = input.Bio
	user.UpdatedAt = now
	s.users[userID] = user
	return user, nil
}

// MarkStaff flags a user as staff. Test/bootstrap helper; in production
// this is an operator action against the accounts table.
func (s *Store) MarkStaff(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[userID]; ok {
		user.IsStaff = true
		s.users[userID] = user
	}
}

func (s *Store) Follow(_ context.Context, followerID string, followeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	followees, ok := s.follows[followerID]
	if !ok {
		followees = make(map[string]struct{})
		s.follows[followerID] = followees
	}
	followees[followeeID] = struct{}{}
	return nil
}

func (s *Store) Unfollow(_ context.Context, followerID string, followeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	followees := s.follows[followerID]
	if _, ok := followees[followeeID]; !ok {
		return domainerrors.ErrNotFollowing
	}
	delete(followees, followeeID)
	return nil
}

func (s *Store) ListFollowing(_ context.Context, followerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	followees := make([]string, 0, len(s.follows[followerID]))
	for followee := range s.follows[followerID] {
		followees = append(followees, followee)
	}
	sort.Strings(followees)
	return followees, nil
}

func (s *Store) CountFollowing(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.follows[userID]), nil
}

func (s *Store) CountFollowers(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, followees := range s.follows {
		if _, ok := followees[userID]; ok {
			count++
		}
	}
	return count, nil
}

func (s *Store) PutToken(_ context.Context, token ports.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token.Token] = token
	return nil
}

func (s *Store) GetToken(_ context.Context, raw string, now time.Time) (ports.Token, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[raw]
	if !ok || !token.ExpiresAt.After(now) {
		return ports.Token{}, false, nil
	}
	return token, true, nil
}

func (s *Store) GetActiveTokenForUser(_ context.Context, userID string, now time.Time) (ports.Token, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, token := range s.tokens {
		if token.UserID == userID && token.ExpiresAt.After(now) {
			return token, true, nil
		}
	}
	return ports.Token{}, false, nil
}

func (s *Store) DeleteExpiredTokens(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for raw, token := range s.tokens {
		if !token.ExpiresAt.After(now) {
			delete(s.tokens, raw)
			removed++
		}
	}
	return removed, nil
}

// Now implements ports.Clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID implements ports.IDGenerator.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
