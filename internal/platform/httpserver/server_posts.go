package httpserver

import (
	"errors"
	"net/http"
	"net/url"

	posterrors "libris/contexts/community/post-service/domain/errors"
	posthttp "libris/contexts/community/post-service/transport/http"
	accountports "libris/contexts/identity-access/account-service/ports"
)

func (s *Server) registerPostRoutes() {
	s.mux.HandleFunc("GET /api/posts", s.handleListPosts)
	s.mux.HandleFunc("POST /api/posts", s.handleCreatePost)
	s.mux.HandleFunc("GET /api/posts/{post_id}", s.handleGetPost)
	s.mux.HandleFunc("PATCH /api/posts/{post_id}", s.handleUpdatePost)
	s.mux.HandleFunc("DELETE /api/posts/{post_id}", s.handleDeletePost)

	s.mux.HandleFunc("GET /api/posts/{post_id}/comments", s.handleListComments)
	s.mux.HandleFunc("POST /api/posts/{post_id}/comments", s.handleCreateComment)
	s.mux.HandleFunc("PATCH /api/comments/{comment_id}", s.handleUpdateComment)
	s.mux.HandleFunc("DELETE /api/comments/{comment_id}", s.handleDeleteComment)

	s.mux.HandleFunc("GET /api/feed", s.handleFeed)
}

func writePostError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, posthttp.ErrorResponse{Code: code, Message: message})
}

func writePostDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, posterrors.ErrInvalidRequest):
		writePostError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, posterrors.ErrPostNotFound):
		writePostError(w, http.StatusNotFound, "post_not_found", err.Error())
	case errors.Is(err, posterrors.ErrCommentNotFound):
		writePostError(w, http.StatusNotFound, "comment_not_found", err.Error())
	case errors.Is(err, posterrors.ErrNotOwner):
		writePostError(w, http.StatusForbidden, "not_owner", err.Error())
	default:
		writePostError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// requirePostUser authenticates the request for post endpoints. All post
// and comment routes require a signed-in user, reads included.
func (s *Server) requirePostUser(w http.ResponseWriter, r *http.Request) (accountports.User, bool) {
	user, err := s.authenticatedUser(r)
	if err != nil {
		writePostError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		return accountports.User{}, false
	}
	return user, true
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requirePostUser(w, r); !ok {
		return
	}
	req, err := parseListPostsRequest(r.URL.Query())
	if err != nil {
		writePostError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	resp, err := s.community.Handler.ListPostsHandler(r.Context(), req)
	if err != nil {
		writePostDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePostUser(w, r)
	if !ok {
		return
	}
	req, err := parseListPostsRequest(r.URL.Query())
	if err != nil {
		writePostError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	resp, err := s.community.Handler.FeedHandler(r.Context(), user.UserID, req)
	if err != nil {
		writePostDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requirePostUser(w, r); !ok {
		return
	}
	resp, err := s.community.Handler.GetPostHandler(r.Context(), r.PathValue("post_id"))
	if err != nil {
		writePostDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePostUser(w, r)
	if !ok {
		return
	}
	var req posthttp.CreatePostRequest
	if !s.decodeJSON(w, r, &req, writePostError) {
		return
	}
	resp, err := s.community.Handler.CreatePostHandler(r.Context(), user.UserID, req)
	if err != nil {
		writePostDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePostUser(w, r)
	if !ok {
		return
	}
	var req posthttp.UpdatePostRequest
	if !s.decodeJSON(w, r, &req, writePostError) {
		return
	}
	resp, err := s.community.Handler.UpdatePostHandler(r.Context(), user.UserID, r.PathValue("post_id"), req)
	if err != nil {
		writePostDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePostUser(w, r)
	if !ok {
		return
	}
	if err := s.community.Handler.DeletePostHandler(r.Context(), user.UserID, r.PathValue("post_id")); err != nil {
		writePostDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requirePostUser(w, r); !ok {
		return
	}
	resp, err := s.community.Handler.ListCommentsHandler(r.Context(), r.PathValue("post_id"))
	if err != nil {
		writePostDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePostUser(w, r)
	if !ok {
		return
	}
	var req posthttp.CreateCommentRequest
	if !s.decodeJSON(w, r, &req, writePostError) {
		return
	}
	resp, err := s.community.Handler.CreateCommentHandler(r.Context(), user.UserID, r.PathValue("post_id"), req)
	if err != nil {
		writePostDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePostUser(w, r)
	if !ok {
		return
	}
	var req posthttp.UpdateCommentRequest
	if !s.decodeJSON(w, r, &req, writePostError) {
		return
	}
	resp, err := s.community.Handler.UpdateCommentHandler(r.Context(), user.UserID, r.PathValue("comment_id"), req)
	if err != nil {
		writePostDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePostUser(w, r)
	if !ok {
		return
	}
	if err := s.community.Handler.DeleteCommentHandler(r.Context(), user.UserID, r.PathValue("comment_id")); err != nil {
		writePostDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseListPostsRequest(query url.Values) (posthttp.ListPostsRequest, error) {
	req := posthttp.ListPostsRequest{
		Search: query.Get("search"),
	}
	var err error
	if req.Page, err = intParam(query, "page"); err != nil {
		return posthttp.ListPostsRequest{}, err
	}
	if req.PageSize, err = intParam(query, "page_size"); err != nil {
		return posthttp.ListPostsRequest{}, err
	}
	return req, nil
}
