package db

import (
	"context"
	"log/slog"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/config"
	"clubhouse-server/internal/models"
	"clubhouse-server/internal/services"
)

type AccountCreator interface {
	CreateAccount(ctx context.Context, in services.CreateAccountInput) (*models.Account, error)
}

// EnsureBootstrapAdmin creates the configured admin account unless one with
// that username or email already exists. It goes through the normal create
// path so the password obeys the same rules as any other account.
func EnsureBootstrapAdmin(ctx context.Context, accounts AccountCreator, admin config.BootstrapAdmin, logger *slog.Logger) error {
	if admin.Username == "" {
		return nil
	}

	created, err := accounts.CreateAccount(ctx, services.CreateAccountInput{
		Username: admin.Username,
		Email:    admin.Email,
		Password: admin.Password,
		Role:     models.RoleAdmin,
	})
	if auth.HasCode(err, auth.CodeConflict) {
		logger.Debug("bootstrap admin already present", "username", admin.Username)
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("bootstrap admin created", "account_id", created.ID, "username", created.Username)
	return nil
}
