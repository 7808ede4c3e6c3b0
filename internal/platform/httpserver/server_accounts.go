package httpserver

import (
	"errors"
	"net/http"

	accounterrors "libris/contexts/identity-access/account-service/domain/errors"
	accountports "libris/contexts/identity-access/account-service/ports"
	accounthttp "libris/contexts/identity-access/account-service/transport/http"
)

func (s *Server) registerAccountRoutes() {
	s.mux.HandleFunc("POST /api/accounts/register", s.handleAccountRegister)
	s.mux.HandleFunc("POST /api/accounts/login", s.handleAccountLogin)
	s.mux.HandleFunc("GET /api/accounts/me", s.handleAccountMe)
	s.mux.HandleFunc("PATCH /api/accounts/me", s.handleAccountUpdateProfile)
	s.mux.HandleFunc("GET /api/accounts/{user_id}", s.handleAccountGetProfile)
	s.mux.HandleFunc("POST /api/accounts/{user_id}/follow", s.handleAccountFollow)
	s.mux.HandleFunc("DELETE /api/accounts/{user_id}/follow", s.handleAccountUnfollow)
}

func writeAccountError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accounthttp.ErrorResponse{Code: code, Message: message})
}

func writeAccountDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounterrors.ErrInvalidRequest):
		writeAccountError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, accounterrors.ErrUsernameTaken):
		writeAccountError(w, http.StatusConflict, "username_taken", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidCredentials):
		writeAccountError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidToken), errors.Is(err, errMissingBearer):
		writeAccountError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, accounterrors.ErrUserNotFound):
		writeAccountError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, accounterrors.ErrSelfFollow):
		writeAccountError(w, http.StatusBadRequest, "self_follow", err.Error())
	case errors.Is(err, accounterrors.ErrNotFollowing):
		writeAccountError(w, http.StatusBadRequest, "not_following", err.Error())
	default:
		writeAccountError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// requireAccountUser authenticates the request for account endpoints.
func (s *Server) requireAccountUser(w http.ResponseWriter, r *http.Request) (accountports.User, bool) {
	user, err := s.authenticatedUser(r)
	if err != nil {
		writeAccountError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		return accountports.User{}, false
	}
	return user, true
}

func (s *Server) handleAccountRegister(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.RegisterRequest
	if !s.decodeJSON(w, r, &req, writeAccountError) {
		return
	}
	resp, err := s.accounts.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAccountLogin(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.LoginRequest
	if !s.decodeJSON(w, r, &req, writeAccountError) {
		return
	}
	resp, err := s.accounts.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccountMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAccountUser(w, r)
	if !ok {
		return
	}
	resp, err := s.accounts.Handler.GetProfileHandler(r.Context(), user.UserID)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccountUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAccountUser(w, r)
	if !ok {
		return
	}
	var req accounthttp.UpdateProfileRequest
	if !s.decodeJSON(w, r, &req, writeAccountError) {
		return
	}
	resp, err := s.accounts.Handler.UpdateProfileHandler(r.Context(), user.UserID, req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccountGetProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAccountUser(w, r); !ok {
		return
	}
	resp, err := s.accounts.Handler.GetProfileHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccountFollow(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAccountUser(w, r)
	if !ok {
		return
	}
	resp, err := s.accounts.Handler.FollowHandler(r.Context(), user.UserID, r.PathValue("user_id"))
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccountUnfollow(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAccountUser(w, r)
	if !ok {
		return
	}
	resp, err := s.accounts.Handler.UnfollowHandler(r.Context(), user.UserID, r.PathValue("user_id"))
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
