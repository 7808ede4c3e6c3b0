package workers

import (
	"context"
	"log/slog"

	"libris/contexts/identity-access/account-service/application"
)

// TokenSweeper deletes expired bearer tokens on a schedule. Expired tokens
// already fail authentication at read time; the sweep keeps the table from
// growing without bound.
type TokenSweeper struct {
	Accounts application.Service
	Logger   *slog.Logger
}

func (t TokenSweeper) RunOnce(ctx context.Context) error {
	_, err := t.Accounts.SweepExpiredTokens(ctx)
	return err
}
