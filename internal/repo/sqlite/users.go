package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, email, password_hash, active, admin, created_at`

// userRow mirrors the users table; created_at is stored as RFC3339 text.
type userRow struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Active       bool   `db:"active"`
	Admin        bool   `db:"admin"`
	CreatedAt    string `db:"created_at"`
}

func (r userRow) toUser() user.User {
	created, _ := time.Parse(time.RFC3339, r.CreatedAt)

	return user.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Active:       r.Active,
		Admin:        r.Admin,
		CreatedAt:    created,
	}
}

type UsersRepo struct {
	db *sqlx.DB
}

func NewUsersRepo(db *sqlx.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, nu user.NewUser) (user.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, admin) VALUES (?, ?, ?, ?)`,
		nu.Username, nu.Email, nu.PasswordHash, nu.Admin,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	var rows []userRow

	if err := r.db.SelectContext(ctx, &rows, `SELECT `+userColumns+` FROM users ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toUser())
	}

	return out, nil
}

func (r *UsersRepo) SetAdmin(ctx context.Context, id int64, admin bool) error {
	return r.setFlag(ctx, `UPDATE users SET admin = ? WHERE id = ?`, admin, id)
}

func (r *UsersRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return r.setFlag(ctx, `UPDATE users SET active = ? WHERE id = ?`, active, id)
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *UsersRepo) getOne(ctx context.Context, query string, arg any) (user.User, error) {
	var row userRow

	err := r.db.GetContext(ctx, &row, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("get user: %w", err)
	}

	return row.toUser(), nil
}

func (r *UsersRepo) setFlag(ctx context.Context, query string, value bool, id int64) error {
	res, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}

	if n == 0 {
		return user.ErrNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
