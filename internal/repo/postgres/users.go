package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, username, email, password_hash, active, admin, created_at`

type UsersRepo struct {
	pool    *pgxpool.Pool
	metrics *observability.Prom
}

// NewUsersRepo builds the repo; metrics may be nil.
func NewUsersRepo(pool *pgxpool.Pool, metrics *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, metrics: metrics}
}

func (r *UsersRepo) Create(ctx context.Context, nu user.NewUser) (user.User, error) {
	var u user.User

	err := r.metrics.ObserveDB("users_create", func() error {
		return scanUser(r.pool.QueryRow(ctx,
			`INSERT INTO users (username, email, password_hash, admin)
			VALUES ($1, $2, $3, $4)
			RETURNING `+userColumns,
			nu.Username, nu.Email, nu.PasswordHash, nu.Admin,
		), &u)
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.metrics.ObserveDB("users_get_by_id", func() error {
		return scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
		), &u)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("get user %d: %w", id, err)
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.metrics.ObserveDB("users_get_by_email", func() error {
		return scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
		), &u)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("get user by email: %w", err)
	}

	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	output := make([]user.User, 0)

	err := r.metrics.ObserveDB("users_list", func() error {
		// insertion order
		rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u user.User
			if err := scanUser(rows, &u); err != nil {
				return err
			}
			output = append(output, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return output, nil
}

func (r *UsersRepo) SetAdmin(ctx context.Context, id int64, admin bool) error {
	return r.setFlag(ctx, "users_set_admin", `UPDATE users SET admin = $2 WHERE id = $1`, id, admin)
}

func (r *UsersRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return r.setFlag(ctx, "users_set_active", `UPDATE users SET active = $2 WHERE id = $1`, id, active)
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *UsersRepo) setFlag(ctx context.Context, op, query string, id int64, value bool) error {
	var affected int64

	err := r.metrics.ObserveDB(op, func() error {
		tag, err := r.pool.Exec(ctx, query, id, value)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// if no rows were updated the user does not exist
	if affected == 0 {
		return user.ErrNotFound
	}

	return nil
}

func scanUser(row pgx.Row, u *user.User) error {
	return row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Active,
		&u.Admin,
		&u.CreatedAt,
	)
}
