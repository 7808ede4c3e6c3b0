package unit

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	account "libris/contexts/identity-access/account-service"
	domainerrors "libris/contexts/identity-access/account-service/domain/errors"
	httptransport "libris/contexts/identity-access/account-service/transport/http"
)

func registerAccount(t *testing.T, module account.Module, username string) httptransport.SessionResponse {
	t.Helper()
	session, err := module.Handler.RegisterHandler(context.Background(), httptransport.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "sw0rdfish-long",
	})
	if err != nil {
		t.Fatalf("register %s failed: %v", username, err)
	}
	return session
}

func TestRegisterLoginAuthenticateRoundTrip(t *testing.T) {
	module := account.NewInMemoryModule(slog.Default())
	ctx := context.Background()

	session := registerAccount(t, module, "ursula")
	if session.Token == "" {
		t.Fatalf("expected session token on register")
	}

	login, err := module.Handler.LoginHandler(ctx, httptransport.LoginRequest{
		Username: "ursula",
		Password: "sw0rdfish-long",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	user, err := module.Handler.AuthenticateHandler(ctx, login.Token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.UserID != session.User.UserID {
		t.Fatalf("token resolved to wrong user: %s != %s", user.UserID, session.User.UserID)
	}
}

func TestDuplicateUsernameRejected(t *testing.T) {
	module := account.NewInMemoryModule(slog.Default())

	registerAccount(t, module, "octavia")
	_, err := module.Handler.RegisterHandler(context.Background(), httptransport.RegisterRequest{
		Username: "octavia",
		Email:    "other@example.com",
		Password: "sw0rdfish-long",
	})
	if !errors.Is(err, domainerrors.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestWrongPasswordAndBogusToken(t *testing.T) {
	module := account.NewInMemoryModule(slog.Default())
	ctx := context.Background()

	registerAccount(t, module, "margaret")
	_, err := module.Handler.LoginHandler(ctx, httptransport.LoginRequest{
		Username: "margaret",
		Password: "not-the-password",
	})
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err = module.Handler.AuthenticateHandler(ctx, "not-a-token")
	if !errors.Is(err, domainerrors.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestProfileUpdateIsVisibleOnNextRead(t *testing.T) {
	module := account.NewInMemoryModule(slog.Default())
	ctx := context.Background()

	session := registerAccount(t, module, "ted")
	updated, err := module.Handler.UpdateProfileHandler(ctx, session.User.UserID, httptransport.UpdateProfileRequest{
		DisplayName: "Ted Chiang",
		Bio:         "short fiction",
	})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.DisplayName != "Ted Chiang" {
		t.Fatalf("unexpected display name: %s", updated.DisplayName)
	}

	profile, err := module.Handler.GetProfileHandler(ctx, session.User.UserID)
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if profile.Bio != "short fiction" {
		t.Fatalf("unexpected bio: %s", profile.Bio)
	}
}

func TestFollowGraphCountsAndSelfFollow(t *testing.T) {
	module := account.NewInMemoryModule(slog.Default())
	ctx := context.Background()

	alice := registerAccount(t, module, "alice")
	bob := registerAccount(t, module, "bob")

	resp, err := module.Handler.FollowHandler(ctx, alice.User.UserID, bob.User.UserID)
	if err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	if resp.FollowingCount != 1 || resp.TargetFollowersCount != 1 {
		t.Fatalf("unexpected counts after follow: %+v", resp)
	}

	if _, err := module.Handler.FollowHandler(ctx, alice.User.UserID, alice.User.UserID); !errors.Is(err, domainerrors.ErrSelfFollow) {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}

	resp, err = module.Handler.UnfollowHandler(ctx, alice.User.UserID, bob.User.UserID)
	if err != nil {
		t.Fatalf("unfollow failed: %v", err)
	}
	if resp.FollowingCount != 0 || resp.TargetFollowersCount != 0 {
		t.Fatalf("unexpected counts after unfollow: %+v", resp)
	}

	if _, err := module.Handler.UnfollowHandler(ctx, alice.User.UserID, bob.User.UserID); !errors.Is(err, domainerrors.ErrNotFollowing) {
		t.Fatalf("expected ErrNotFollowing, got %v", err)
	}
}
