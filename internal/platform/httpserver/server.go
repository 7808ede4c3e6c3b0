package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	catalog "libris/contexts/catalog/book-service"
	community "libris/contexts/community/post-service"
	account "libris/contexts/identity-access/account-service"
	accountports "libris/contexts/identity-access/account-service/ports"
	authorization "libris/contexts/identity-access/authorization-service"
	_ "libris/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	accounts      account.Module
	catalog       catalog.Module
	community     community.Module
	authorization authorization.Module
}

func New(
	accounts account.Module,
	catalogModule catalog.Module,
	communityModule community.Module,
	authorizationModule authorization.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		accounts:      accounts,
		catalog:       catalogModule,
		community:     communityModule,
		authorization: authorizationModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerAccountRoutes()
	s.registerBookRoutes()
	s.registerPostRoutes()
	s.registerAuthzRoutes()
}

// errMissingBearer marks requests that never presented a token, as
// opposed to presenting one that is expired or unknown.
var errMissingBearer = errors.New("authorization bearer token is required")

// authenticatedUser resolves the Authorization bearer token to an account.
// The returned error comes from the account domain and is mapped to a
// status code by the calling module file.
func (s *Server) authenticatedUser(r *http.Request) (accountports.User, error) {
	token, ok := bearerToken(r)
	if !ok {
		return accountports.User{}, errMissingBearer
	}
	return s.accounts.Handler.AuthenticateHandler(r.Context(), token)
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func (s *Server) decodeJSON(
	w http.ResponseWriter,
	r *http.Request,
	dst any,
	writeErr func(http.ResponseWriter, int, string, string),
) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
