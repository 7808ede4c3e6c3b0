package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// User is an account row. IsStaff gates the authorization admin surface.
type User struct {
	UserID       string
	Username     string
	Email        string
	PasswordHash string
	DisplayName  string
	Bio          string
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Token is an opaque bearer credential with a fixed TTL.
type Token struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type UpdateProfileInput struct {
	DisplayName string
	Bio         string
}

// Repository persists accounts and the follow graph.
type Repository interface {
	CreateUser(ctx context.Context, user User) error
	GetUserByID(ctx context.Context, userID string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput, now time.Time) (User, error)

	Follow(ctx context.Context, followerID string, followeeID string) error
	Unfollow(ctx context.Context, followerID string, followeeID string) error
	ListFollowing(ctx context.Context, followerID string) ([]string, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
}

// TokenStore persists issued tokens. Lookups must honor expiry.
type TokenStore interface {
	PutToken(ctx context.Context, token Token) error
	GetToken(ctx context.Context, token string, now time.Time) (Token, bool, error)
	GetActiveTokenForUser(ctx context.Context, userID string, now time.Time) (Token, bool, error)
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int, error)
}
