package httpadapter

import (
	"context"
	"fmt"
	"log/slog"

	"libris/contexts/identity-access/account-service/application"
	"libris/contexts/identity-access/account-service/ports"
	httptransport "libris/contexts/identity-access/account-service/transport/http"
)

// Handler maps HTTP DTOs to the account application service.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, request httptransport.RegisterRequest) (httptransport.SessionResponse, error) {
	session, err := h.Service.Register(ctx, ports.RegisterInput{
		Username: request.Username,
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return sessionResponse(session), nil
}

func (h Handler) LoginHandler(ctx context.Context, request httptransport.LoginRequest) (httptransport.SessionResponse, error) {
	session, err := h.Service.Login(ctx, request.Username, request.Password)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return sessionResponse(session), nil
}

// AuthenticateHandler resolves a bearer token to the owning user. Used by
// the request layer in front of every authenticated endpoint.
func (h Handler) AuthenticateHandler(ctx context.Context, token string) (ports.User, error) {
	return h.Service.Authenticate(ctx, token)
}

func (h Handler) GetProfileHandler(ctx context.Context, userID string) (httptransport.UserDTO, error) {
	user, err := h.Service.GetProfile(ctx, userID)
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return userDTO(user), nil
}

func (h Handler) UpdateProfileHandler(ctx context.Context, userID string, request httptransport.UpdateProfileRequest) (httptransport.UserDTO, error) {
	user, err := h.Service.UpdateProfile(ctx, userID, ports.UpdateProfileInput{
		DisplayName: request.DisplayName,
		Bio:         request.Bio,
	})
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return userDTO(user), nil
}

func (h Handler) FollowHandler(ctx context.Context, followerID string, followeeID string) (httptransport.FollowResponse, error) {
	result, err := h.Service.Follow(ctx, followerID, followeeID)
	if err != nil {
		return httptransport.FollowResponse{}, err
	}
	return httptransport.FollowResponse{
		Detail:               fmt.Sprintf("now following %s", followeeID),
		FollowingCount:       result.FollowingCount,
		TargetFollowersCount: result.TargetFollowersCount,
	}, nil
}

func (h Handler) UnfollowHandler(ctx context.Context, followerID string, followeeID string) (httptransport.FollowResponse, error) {
	result, err := h.Service.Unfollow(ctx, followerID, followeeID)
	if err != nil {
		return httptransport.FollowResponse{}, err
	}
	return httptransport.FollowResponse{
		Detail:               fmt.Sprintf("unfollowed %s", followeeID),
		FollowingCount:       result.FollowingCount,
		TargetFollowersCount: result.TargetFollowersCount,
	}, nil
}

func sessionResponse(session application.Session) httptransport.SessionResponse {
	return httptransport.SessionResponse{
		Token:     session.Token.Token,
		ExpiresAt: session.Token.ExpiresAt,
		User:      userDTO(session.User),
	}
}

func userDTO(user ports.User) httptransport.UserDTO {
	return httptransport.UserDTO{
		UserID:      user.UserID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		IsStaff:     user.IsStaff,
		CreatedAt:   user.CreatedAt,
	}
}
