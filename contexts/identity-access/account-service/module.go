package account

import (
	"log/slog"
	"time"

	httpadapter "libris/contexts/identity-access/account-service/adapters/http"
	"libris/contexts/identity-access/account-service/adapters/memory"
	"libris/contexts/identity-access/account-service/application"
	"libris/contexts/identity-access/account-service/ports"
)

// Module is the account-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Tokens      ports.TokenStore
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	TokenTTL    time.Duration
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:     deps.Repository,
		Tokens:   deps.Tokens,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Logger:   deps.Logger,
		TokenTTL: deps.TokenTTL,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Tokens:      store,
		Clock:       store,
		IDGenerator: store,
		TokenTTL:    30 * 24 * time.Hour,
		Logger:      logger,
	})
	module.Store = store
	return module
}
