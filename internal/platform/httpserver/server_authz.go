package httpserver

import (
	"errors"
	"net/http"

	accountports "libris/contexts/identity-access/account-service/ports"
	authzerrors "libris/contexts/identity-access/authorization-service/domain/errors"
	authzhttp "libris/contexts/identity-access/authorization-service/transport/http"
)

func (s *Server) registerAuthzRoutes() {
	s.mux.HandleFunc("POST /api/authz/authorize", s.handleAuthzAuthorize)
	s.mux.HandleFunc("GET /api/authz/users/{user_id}/groups", s.handleAuthzListUserGroups)
	s.mux.HandleFunc("GET /api/authz/users/{user_id}/permissions", s.handleAuthzListEffectivePermissions)

	s.mux.HandleFunc("GET /api/authz/groups", s.handleAuthzListGroups)
	s.mux.HandleFunc("POST /api/authz/groups", s.handleAuthzCreateGroup)
	s.mux.HandleFunc("PUT /api/authz/groups/{group_id}/permissions", s.handleAuthzSetGroupPermissions)
	s.mux.HandleFunc("POST /api/authz/groups/{group_id}/members", s.handleAuthzAddMember)
	s.mux.HandleFunc("DELETE /api/authz/groups/{group_id}/members/{user_id}", s.handleAuthzRemoveMember)
}

func writeAuthzError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, authzhttp.ErrorResponse{Code: code, Message: message})
}

func writeAuthzDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authzerrors.ErrInvalidUserID),
		errors.Is(err, authzerrors.ErrUnknownOperation),
		errors.Is(err, authzerrors.ErrUnknownPermission),
		errors.Is(err, authzerrors.ErrInvalidGroupName):
		writeAuthzError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, authzerrors.ErrGroupNotFound),
		errors.Is(err, authzerrors.ErrMemberNotFound):
		writeAuthzError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, authzerrors.ErrGroupAlreadyExists):
		writeAuthzError(w, http.StatusConflict, "group_already_exists", err.Error())
	case errors.Is(err, authzerrors.ErrForbidden):
		writeAuthzError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeAuthzError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// requireStaff authenticates the caller and gates the admin surface on the
// account staff flag, mirroring superuser-only group management.
func (s *Server) requireStaff(w http.ResponseWriter, r *http.Request) (accountports.User, bool) {
	user, err := s.authenticatedUser(r)
	if err != nil {
		writeAuthzError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		return accountports.User{}, false
	}
	if !user.IsStaff {
		writeAuthzError(w, http.StatusForbidden, "forbidden", "staff access required")
		return accountports.User{}, false
	}
	return user, true
}

// requireSelfOrStaff allows a user to inspect their own memberships and
// staff to inspect anyone's.
func (s *Server) requireSelfOrStaff(w http.ResponseWriter, r *http.Request, subjectID string) bool {
	user, err := s.authenticatedUser(r)
	if err != nil {
		writeAuthzError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		return false
	}
	if user.UserID != subjectID && !user.IsStaff {
		writeAuthzError(w, http.StatusForbidden, "forbidden", "staff access required")
		return false
	}
	return true
}

// handleAuthzAuthorize evaluates the policy for the authenticated caller.
// A DENY decision is a normal 200 response with allowed=false; the 403 is
// issued by the gated endpoint itself.
func (s *Server) handleAuthzAuthorize(w http.ResponseWriter, r *http.Request) {
	user, err := s.authenticatedUser(r)
	if err != nil {
		writeAuthzError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		return
	}
	var req authzhttp.AuthorizeRequest
	if !s.decodeJSON(w, r, &req, writeAuthzError) {
		return
	}
	resp, err := s.authorization.Handler.AuthorizeHandler(r.Context(), user.UserID, req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthzListUserGroups(w http.ResponseWriter, r *http.Request) {
	subjectID := r.PathValue("user_id")
	if !s.requireSelfOrStaff(w, r, subjectID) {
		return
	}
	resp, err := s.authorization.Handler.ListUserGroupsHandler(r.Context(), subjectID)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthzListEffectivePermissions(w http.ResponseWriter, r *http.Request) {
	subjectID := r.PathValue("user_id")
	if !s.requireSelfOrStaff(w, r, subjectID) {
		return
	}
	resp, err := s.authorization.Handler.ListEffectivePermissionsHandler(r.Context(), subjectID)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthzListGroups(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireStaff(w, r); !ok {
		return
	}
	resp, err := s.authorization.Handler.ListGroupsHandler(r.Context())
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthzCreateGroup(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireStaff(w, r); !ok {
		return
	}
	var req authzhttp.CreateGroupRequest
	if !s.decodeJSON(w, r, &req, writeAuthzError) {
		return
	}
	resp, err := s.authorization.Handler.CreateGroupHandler(r.Context(), req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAuthzSetGroupPermissions(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireStaff(w, r); !ok {
		return
	}
	var req authzhttp.SetGroupPermissionsRequest
	if !s.decodeJSON(w, r, &req, writeAuthzError) {
		return
	}
	resp, err := s.authorization.Handler.SetGroupPermissionsHandler(r.Context(), r.PathValue("group_id"), req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthzAddMember(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireStaff(w, r); !ok {
		return
	}
	var req authzhttp.MembershipRequest
	if !s.decodeJSON(w, r, &req, writeAuthzError) {
		return
	}
	if err := s.authorization.Handler.AddMemberHandler(r.Context(), r.PathValue("group_id"), req); err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAuthzRemoveMember(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireStaff(w, r); !ok {
		return
	}
	err := s.authorization.Handler.RemoveMemberHandler(r.Context(), r.PathValue("group_id"), r.PathValue("user_id"))
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
