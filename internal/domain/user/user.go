package user

import (
	"context"
	"errors"
	"time"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // never expose hash in JSON
	Active       bool      `json:"active" db:"active"`
	Admin        bool      `json:"admin" db:"admin"`
	CreatedAt    time.Time `json:"-" db:"-"`
}

// NewUser is what a store needs to insert a row. New users are always active.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	Admin        bool
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

// Repository is implemented by every user store (postgres, sqlite, memory, cached).
type Repository interface {
	Create(ctx context.Context, nu NewUser) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	SetAdmin(ctx context.Context, id int64, admin bool) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type CreateUserRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=128"`
	Email    string `json:"email" form:"email" binding:"required,max=255"`
	Password string `json:"password" form:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
