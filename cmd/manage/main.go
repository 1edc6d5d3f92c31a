// Command manage runs maintenance tasks against the configured store.
//
//	manage migrate
//	manage recreate-db
//	manage seed
//	manage set-admin -email someone@example.com [-revoke]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/geocoder89/usershub/internal/config"
	"github.com/geocoder89/usershub/internal/db"
	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/observability"
	"github.com/geocoder89/usershub/internal/repo"
	"github.com/geocoder89/usershub/internal/security"
)

var errUsage = errors.New("usage: manage <migrate|recreate-db|seed|set-admin> [flags]")

// seedUsers are the demo accounts created by "manage seed".
var seedUsers = []struct {
	Username string
	Email    string
}{
	{"michael", "hermanmu@gmail.com"},
	{"michaelherman", "michael@mherman.org"},
}

const seedPassword = "greaterthaneight"

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repo.Open(cfg, nil)
	if err != nil {
		log.Error("store open failed", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := run(ctx, store, cfg, os.Args[1:], os.Stdout); err != nil {
		log.Error("command failed", "err", err)
		stop()
		store.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, store *repo.Store, cfg config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "migrate":
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrations applied")
		return nil

	case "recreate-db":
		if err := store.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "database recreated")
		return nil

	case "seed":
		return seed(ctx, store.Users, cfg, out)

	case "set-admin":
		return setAdmin(ctx, store.Users, args[1:], out)
	}

	return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
}

func seed(ctx context.Context, users user.Repository, cfg config.Config, out io.Writer) error {
	hash, err := security.HashPassword(seedPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}

	for _, s := range seedUsers {
		_, err := users.Create(ctx, user.NewUser{Username: s.Username, Email: s.Email, PasswordHash: hash})
		if errors.Is(err, user.ErrEmailTaken) {
			fmt.Fprintf(out, "%s already exists\n", s.Email)
			continue
		}
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.Email, err)
		}
		fmt.Fprintf(out, "%s was added!\n", s.Email)
	}

	return db.EnsureAdminUser(ctx, users, cfg)
}

func setAdmin(ctx context.Context, users user.Repository, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("set-admin", flag.ContinueOnError)
	fs.SetOutput(out)

	email := fs.String("email", "", "email of the user to change")
	revoke := fs.Bool("revoke", false, "remove admin instead of granting it")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("set-admin: -email is required")
	}

	u, err := users.GetByEmail(ctx, *email)
	if err != nil {
		return fmt.Errorf("set-admin %s: %w", *email, err)
	}

	if err := users.SetAdmin(ctx, u.ID, !*revoke); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s admin=%t\n", u.Email, !*revoke)
	return nil
}
