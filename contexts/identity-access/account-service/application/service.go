package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "libris/contexts/identity-access/account-service/domain/errors"
	"libris/contexts/identity-access/account-service/ports"

	"golang.org/x/crypto/bcrypt"
)

// Session pairs a user with an issued bearer token.
type Session struct {
	User  ports.User
	Token ports.Token
}

// FollowResult carries the counters returned by follow/unfollow calls.
type FollowResult struct {
	FollowingCount       int
	TargetFollowersCount int
}

type Service struct {
	Repo     ports.Repository
	Tokens   ports.TokenStore
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
	TokenTTL time.Duration
}

func (s Service) Register(ctx context.Context, input ports.RegisterInput) (Session, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || !strings.Contains(email, "@") || len(input.Password) < 8 {
		return Session{}, domainerrors.ErrInvalidRequest
	}

	_, err := s.Repo.GetUserByUsername(ctx, username)
	if err == nil {
		return Session{}, domainerrors.ErrUsernameTaken
	}
	if !errors.Is(err, domainerrors.ErrUserNotFound) {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}

	userID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return Session{}, err
	}

	now := s.now()
	user := ports.User{
		UserID:       userID,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  username,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return Session{}, err
	}

	token, err := s.issueToken(ctx, userID, now)
	if err != nil {
		return Session{}, err
	}

	s.logger().Info("account registered",
		"event", "account_registered",
		"module", "identity-access/account-service",
		"layer", "application",
		"user_id", userID,
		"username", username,
	)
	return Session{User: user, Token: token}, nil
}

func (s Service) Login(ctx context.Context, username string, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, domainerrors.ErrInvalidRequest
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return Session{}, domainerrors.ErrInvalidCredentials
		}
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger().Warn("login rejected",
			"event", "account_login_rejected",
			"module", "identity-access/account-service",
			"layer", "application",
			"username", username,
		)
		return Session{}, domainerrors.ErrInvalidCredentials
	}

	now := s.now()
	token, found, err := s.Tokens.GetActiveTokenForUser(ctx, user.UserID, now)
	if err != nil {
		return Session{}, err
	}
	if !found {
		token, err = s.issueToken(ctx, user.UserID, now)
		if err != nil {
			return Session{}, err
		}
	}
	return Session{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token to the owning user.
func (s Service) Authenticate(ctx context.Context, rawToken string) (ports.User, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return ports.User{}, domainerrors.ErrInvalidToken
	}
	token, found, err := s.Tokens.GetToken(ctx, rawToken, s.now())
	if err != nil {
		return ports.User{}, err
	}
	if !found {
		return ports.User{}, domainerrors.ErrInvalidToken
	}
	return s.Repo.GetUserByID(ctx, token.UserID)
}

func (s Service) GetProfile(ctx context.Context, userID string) (ports.User, error) {
	if strings.TrimSpace(userID) == "" {
		return ports.User{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetUserByID(ctx, strings.TrimSpace(userID))
}

func (s Service) UpdateProfile(ctx context.Context, userID string, input ports.UpdateProfileInput) (ports.User, error) {
	if strings.TrimSpace(userID) == "" {
		return ports.User{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.UpdateProfile(ctx, strings.TrimSpace(userID), input, s.now())
}

func (s Service) Follow(ctx context.Context, followerID string, followeeID string) (FollowResult, error) {
	followerID = strings.TrimSpace(followerID)
	followeeID = strings.TrimSpace(followeeID)
	if followerID == "" || followeeID == "" {
		return FollowResult{}, domainerrors.ErrInvalidRequest
	}
	if followerID == followeeID {
		return FollowResult{}, domainerrors.ErrSelfFollow
	}
	if _, err := s.Repo.GetUserByID(ctx, followeeID); err != nil {
		return FollowResult{}, err
	}
	if err := s.Repo.Follow(ctx, followerID, followeeID); err != nil {
		return FollowResult{}, err
	}
	return s.followCounts(ctx, followerID, followeeID)
}

func (s Service) Unfollow(ctx context.Context, followerID string, followeeID string) (FollowResult, error) {
	followerID = strings.TrimSpace(followerID)
	followeeID = strings.TrimSpace(followeeID)
	if followerID == "" || followeeID == "" {
		return FollowResult{}, domainerrors.ErrInvalidRequest
	}
	if followerID == followeeID {
		return FollowResult{}, domainerrors.ErrSelfFollow
	}
	if _, err := s.Repo.GetUserByID(ctx, followeeID); err != nil {
		return FollowResult{}, err
	}
	if err := s.Repo.Unfollow(ctx, followerID, followeeID); err != nil {
		return FollowResult{}, err
	}
	return s.followCounts(ctx, followerID, followeeID)
}

// Following exposes the follow graph to the feed query.
func (s Service) Following(ctx context.Context, userID string) ([]string, error) {
	return s.Repo.ListFollowing(ctx, strings.TrimSpace(userID))
}

// SweepExpiredTokens removes expired tokens; called from the worker.
func (s Service) SweepExpiredTokens(ctx context.Context) (int, error) {
	removed, err := s.Tokens.DeleteExpiredTokens(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger().Info("expired tokens swept",
			"event", "account_tokens_swept",
			"module", "identity-access/account-service",
			"layer", "application",
			"removed", removed,
		)
	}
	return removed, nil
}

func (s Service) issueToken(ctx context.Context, userID string, now time.Time) (ports.Token, error) {
	value, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Token{}, err
	}
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	token := ports.Token{
		Token:     value,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.Tokens.PutToken(ctx, token); err != nil {
		return ports.Token{}, err
	}
	return token, nil
}

func (s Service) followCounts(ctx context.Context, followerID string, followeeID string) (FollowResult, error) {
	following, err := s.Repo.CountFollowing(ctx, followerID)
	if err != nil {
		return FollowResult{}, err
	}
	followers, err := s.Repo.CountFollowers(ctx, followeeID)
	if err != nil {
		return FollowResult{}, err
	}
	return FollowResult{
		FollowingCount:       following,
		TargetFollowersCount: followers,
	}, nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (s Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
