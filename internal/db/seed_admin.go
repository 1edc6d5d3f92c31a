package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/geocoder89/usershub/internal/config"
	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/security"
)

// EnsureAdminUser creates the configured admin account, or promotes it if
// the email already belongs to a regular user. No-op without ADMIN_EMAIL/ADMIN_PASSWORD.
func EnsureAdminUser(ctx context.Context, users user.Repository, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the user exists

	existing, err := users.GetByEmail(ctx, cfg.AdminEmail)

	if err == nil {
		if existing.Admin {
			return nil
		}
		slog.Default().InfoContext(ctx, "promoting existing user to admin", "user_id", existing.ID)
		return users.SetAdmin(ctx, existing.ID, true)
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword, cfg.BcryptCost)

	if err != nil {
		return err
	}

	u, err := users.Create(ctx, user.NewUser{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Admin:        true,
	})
	if err != nil {
		return err
	}

	slog.Default().InfoContext(ctx, "admin user created", "user_id", u.ID)

	return nil
}
