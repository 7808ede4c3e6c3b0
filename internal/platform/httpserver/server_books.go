package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	catalogerrors "libris/contexts/catalog/book-service/domain/errors"
	cataloghttp "libris/contexts/catalog/book-service/transport/http"
	accountports "libris/contexts/identity-access/account-service/ports"
	authzentities "libris/contexts/identity-access/authorization-service/domain/entities"
)

func (s *Server) registerBookRoutes() {
	s.mux.HandleFunc("GET /api/books", s.handleListBooks)
	s.mux.HandleFunc("GET /api/books/{book_id}", s.handleGetBook)
	s.mux.HandleFunc("POST /api/books", s.handleCreateBook)
	s.mux.HandleFunc("PATCH /api/books/{book_id}", s.handleUpdateBook)
	s.mux.HandleFunc("PUT /api/books/{book_id}", s.handleUpdateBook)
	s.mux.HandleFunc("DELETE /api/books/{book_id}", s.handleDeleteBook)

	s.mux.HandleFunc("GET /api/authors", s.handleListAuthors)
	s.mux.HandleFunc("GET /api/authors/{author_id}", s.handleGetAuthor)
	s.mux.HandleFunc("POST /api/authors", s.handleCreateAuthor)
}

func writeBookError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cataloghttp.ErrorResponse{Code: code, Message: message})
}

func writeBookDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogerrors.ErrInvalidRequest),
		errors.Is(err, catalogerrors.ErrInvalidOrdering),
		errors.Is(err, catalogerrors.ErrFutureYear):
		writeBookError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, catalogerrors.ErrBookNotFound):
		writeBookError(w, http.StatusNotFound, "book_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrAuthorNotFound):
		writeBookError(w, http.StatusNotFound, "author_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrDuplicateBook):
		writeBookError(w, http.StatusConflict, "duplicate_book", err.Error())
	default:
		writeBookError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// requireBookOperation authenticates the caller and evaluates the policy
// for the given book operation. DENY short-circuits with 403 before any
// resource lookup, so an unauthorized request for a missing book gets 403.
func (s *Server) requireBookOperation(
	w http.ResponseWriter,
	r *http.Request,
	operation authzentities.Operation,
) (accountports.User, bool) {
	user, err := s.authenticatedUser(r)
	if err != nil {
		writeBookError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		return accountports.User{}, false
	}
	allowed, err := s.authorization.Handler.AuthorizeOperation(r.Context(), user.UserID, operation)
	if err != nil {
		writeBookError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return accountports.User{}, false
	}
	if !allowed {
		writeBookError(w, http.StatusForbidden, "forbidden", "you do not have permission to perform this action")
		return accountports.User{}, false
	}
	return user, true
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireBookOperation(w, r, authzentities.OpViewBooks); !ok {
		return
	}

	req, err := parseListBooksRequest(r.URL.Query())
	if err != nil {
		writeBookError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	resp, err := s.catalog.Handler.ListBooksHandler(r.Context(), req)
	if err != nil {
		writeBookDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireBookOperation(w, r, authzentities.OpViewBooks); !ok {
		return
	}
	resp, err := s.catalog.Handler.GetBookHandler(r.Context(), r.PathValue("book_id"))
	if err != nil {
		writeBookDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireBookOperation(w, r, authzentities.OpCreateBook); !ok {
		return
	}
	var req cataloghttp.CreateBookRequest
	if !s.decodeJSON(w, r, &req, writeBookError) {
		return
	}
	resp, err := s.catalog.Handler.CreateBookHandler(r.Context(), req)
	if err != nil {
		writeBookDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireBookOperation(w, r, authzentities.OpEditBook); !ok {
		return
	}
	var req cataloghttp.UpdateBookRequest
	if !s.decodeJSON(w, r, &req, writeBookError) {
		return
	}
	resp, err := s.catalog.Handler.UpdateBookHandler(r.Context(), r.PathValue("book_id"), req)
	if err != nil {
		writeBookDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireBookOperation(w, r, authzentities.OpDeleteBook); !ok {
		return
	}
	if err := s.catalog.Handler.DeleteBookHandler(r.Context(), r.PathValue("book_id")); err != nil {
		writeBookDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Author reads are public; creation reuses the create_book gate.
func (s *Server) handleListAuthors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.catalog.Handler.ListAuthorsHandler(
		r.Context(),
		query.Get("name_contains"),
		query.Get("has_books") == "true",
	)
	if err != nil {
		writeBookDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAuthor(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.GetAuthorHandler(r.Context(), r.PathValue("author_id"))
	if err != nil {
		writeBookDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateAuthor(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireBookOperation(w, r, authzentities.OpCreateBook); !ok {
		return
	}
	var req cataloghttp.CreateAuthorRequest
	if !s.decodeJSON(w, r, &req, writeBookError) {
		return
	}
	resp, err := s.catalog.Handler.CreateAuthorHandler(r.Context(), req)
	if err != nil {
		writeBookDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func parseListBooksRequest(query url.Values) (cataloghttp.ListBooksRequest, error) {
	req := cataloghttp.ListBooksRequest{
		Title:              query.Get("title"),
		TitleContains:      query.Get("title_contains"),
		AuthorID:           query.Get("author_id"),
		AuthorNameContains: query.Get("author_name_contains"),
		RecentOnly:         query.Get("recent_only") == "true",
		ClassicsOnly:       query.Get("classics") == "true",
		Search:             query.Get("search"),
		Ordering:           query.Get("ordering"),
	}

	var err error
	if req.Year, err = optionalIntParam(query, "publication_year"); err != nil {
		return cataloghttp.ListBooksRequest{}, err
	}
	if req.YearGT, err = optionalIntParam(query, "year_gt"); err != nil {
		return cataloghttp.ListBooksRequest{}, err
	}
	if req.YearLT, err = optionalIntParam(query, "year_lt"); err != nil {
		return cataloghttp.ListBooksRequest{}, err
	}
	if req.YearGTE, err = optionalIntParam(query, "year_gte"); err != nil {
		return cataloghttp.ListBooksRequest{}, err
	}
	if req.YearLTE, err = optionalIntParam(query, "year_lte"); err != nil {
		return cataloghttp.ListBooksRequest{}, err
	}
	if req.Page, err = intParam(query, "page"); err != nil {
		return cataloghttp.ListBooksRequest{}, err
	}
	if req.PageSize, err = intParam(query, "page_size"); err != nil {
		return cataloghttp.ListBooksRequest{}, err
	}
	return req, nil
}

func optionalIntParam(query url.Values, key string) (*int, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New(key + " must be an integer")
	}
	return &value, nil
}

func intParam(query url.Values, key string) (int, error) {
	raw := query.Get(key)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return value, nil
}
