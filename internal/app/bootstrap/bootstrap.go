package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	catalog "libris/contexts/catalog/book-service"
	catalogpostgres "libris/contexts/catalog/book-service/adapters/postgres"
	community "libris/contexts/community/post-service"
	communitypostgres "libris/contexts/community/post-service/adapters/postgres"
	account "libris/contexts/identity-access/account-service"
	accountpostgres "libris/contexts/identity-access/account-service/adapters/postgres"
	accountworkers "libris/contexts/identity-access/account-service/application/workers"
	authorization "libris/contexts/identity-access/authorization-service"
	authzpostgres "libris/contexts/identity-access/authorization-service/adapters/postgres"
	authzworkers "libris/contexts/identity-access/authorization-service/application/workers"
	"libris/contexts/identity-access/authorization-service/domain/services"
	"libris/internal/platform/config"
	"libris/internal/platform/db"
	"libris/internal/platform/httpserver"
	"libris/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const policyChangeTopic = "authz.policy-changes"

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  authzworkers.OutboxRelay
	tokenSweeper accountworkers.TokenSweeper
	enableRelay  bool
	enableSweep  bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	// The operation table is static configuration; refuse to boot if it
	// references an unknown permission.
	if err := services.ValidateOperationTable(); err != nil {
		return nil, err
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	accountRepo := accountpostgres.NewRepository(pg.DB, logger)
	accountModule := account.NewModule(account.Dependencies{
		Repository:  accountRepo,
		Tokens:      accountRepo,
		Clock:       accountpostgres.SystemClock{},
		IDGenerator: accountpostgres.UUIDGenerator{},
		TokenTTL:    cfg.TokenTTL,
		Logger:      logger,
	})

	authzRepo := authzpostgres.NewRepository(pg.DB, logger)
	authzModule := authorization.NewModule(authorization.Dependencies{
		Repository:  authzRepo,
		Outbox:      authzRepo,
		Clock:       authzpostgres.SystemClock{},
		IDGenerator: authzpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	catalogRepo := catalogpostgres.NewRepository(pg.DB, logger)
	catalogModule := catalog.NewModule(catalog.Dependencies{
		Repository:  catalogRepo,
		Clock:       catalogpostgres.SystemClock{},
		IDGenerator: catalogpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	communityRepo := communitypostgres.NewRepository(pg.DB, logger)
	communityModule := community.NewModule(community.Dependencies{
		Repository:  communityRepo,
		Following:   accountModule.Service,
		Clock:       communitypostgres.SystemClock{},
		IDGenerator: communitypostgres.UUIDGenerator{},
		Logger:      logger,
	})

	server := httpserver.New(
		accountModule,
		catalogModule,
		communityModule,
		authzModule,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewBus(cfg.BusBrokers, logger)
	if err != nil {
		return nil, err
	}

	authzRepo := authzpostgres.NewRepository(pg.DB, logger)
	accountRepo := accountpostgres.NewRepository(pg.DB, logger)
	accountModule := account.NewModule(account.Dependencies{
		Repository:  accountRepo,
		Tokens:      accountRepo,
		Clock:       accountpostgres.SystemClock{},
		IDGenerator: accountpostgres.UUIDGenerator{},
		TokenTTL:    cfg.TokenTTL,
		Logger:      logger,
	})

	return &WorkerApp{
		postgres: pg,
		outboxRelay: authzworkers.OutboxRelay{
			Outbox:    authzRepo,
			Publisher: bus,
			Clock:     authzpostgres.SystemClock{},
			Topic:     policyChangeTopic,
			BatchSize: 100,
			Logger:    logger,
		},
		tokenSweeper: accountworkers.TokenSweeper{
			Accounts: accountModule.Service,
			Logger:   logger,
		},
		enableRelay:  cfg.EnableOutboxRelay,
		enableSweep:  cfg.EnableTokenSweeper,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.enableSweep {
			if err := w.tokenSweeper.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.enableRelay {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
