package authorization

import (
	"log/slog"

	httpadapter "libris/contexts/identity-access/authorization-service/adapters/http"
	"libris/contexts/identity-access/authorization-service/adapters/memory"
	"libris/contexts/identity-access/authorization-service/application/commands"
	"libris/contexts/identity-access/authorization-service/application/queries"
	"libris/contexts/identity-access/authorization-service/ports"
)

// Module is the authorization-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Outbox      ports.Outbox
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires policy use-cases and the transport handler using explicit ports.
func NewModule(deps Dependencies) Module {
	authorize := queries.AuthorizeOperationUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	effective := queries.ListEffectivePermissionsUseCase{
		Repository: deps.Repository,
	}
	listGroups := queries.ListGroupsUseCase{
		Repository: deps.Repository,
	}
	listUserGroups := queries.ListUserGroupsUseCase{
		Repository: deps.Repository,
	}
	createGroup := commands.CreateGroupUseCase{
		Repository:  deps.Repository,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	setPermissions := commands.SetGroupPermissionsUseCase{
		Repository:  deps.Repository,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	addMember := commands.AddMemberUseCase{
		Repository:  deps.Repository,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	removeMember := commands.RemoveMemberUseCase{
		Repository:  deps.Repository,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}

	handler := httpadapter.Handler{
		Authorize:            authorize,
		EffectivePermissions: effective,
		Groups:               listGroups,
		UserGroups:           listUserGroups,
		CreateGroup:          createGroup,
		SetGroupPermissions:  setPermissions,
		AddMember:            addMember,
		RemoveMember:         removeMember,
		Logger:               deps.Logger,
	}

	return Module{
		Handler: handler,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
