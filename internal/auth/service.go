package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/security"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("missing auth token")
	ErrInvalidToken       = errors.New("invalid auth token")
	ErrExpiredToken       = errors.New("auth token expired")
	ErrPermissionDenied   = errors.New("permission denied")
)

type UserStore interface {
	Create(ctx context.Context, nu user.NewUser) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type Service struct {
	users      UserStore
	tokens     *Manager
	bcryptCost int
}

func NewService(users UserStore, tokens *Manager, bcryptCost int) *Service {
	return &Service{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Login checks the credentials and issues an access token for the user.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, user.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", user.User{}, ErrInvalidCredentials
		}
		return "", user.User{}, fmt.Errorf("login lookup: %w", err)
	}

	err = security.CheckPassword(u.PasswordHash, password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return "", user.User{}, ErrInvalidCredentials
		}
		return "", user.User{}, fmt.Errorf("check password: %w", err)
	}

	token, err := s.tokens.GenerateAccessToken(u.ID)
	if err != nil {
		return "", user.User{}, fmt.Errorf("generate token: %w", err)
	}

	return token, u, nil
}

// Register creates a regular (non-admin) user and logs them in.
func (s *Service) Register(ctx context.Context, username, email, password string) (string, user.User, error) {
	u, err := s.CreateUser(ctx, username, email, password)
	if err != nil {
		return "", user.User{}, err
	}

	token, err := s.tokens.GenerateAccessToken(u.ID)
	if err != nil {
		return "", user.User{}, fmt.Errorf("generate token: %w", err)
	}

	return token, u, nil
}

// CreateUser hashes the password and inserts a regular user.
// Returns user.ErrEmailTaken when the email is already registered.
func (s *Service) CreateUser(ctx context.Context, username, email, password string) (user.User, error) {
	hash, err := security.HashPassword(password, s.bcryptCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, user.NewUser{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

// Authenticate verifies a raw bearer token and returns the user id it was issued for.
func (s *Service) Authenticate(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrMissingToken
	}

	claims, err := s.tokens.VerifyAccessToken(raw)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, ErrInvalidToken
	}

	id, err := claims.UserID()
	if err != nil {
		return 0, ErrInvalidToken
	}

	return id, nil
}

// CurrentUser resolves an authenticated id to an active user.
func (s *Service) CurrentUser(ctx context.Context, userID int64) (user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidToken
		}
		return user.User{}, fmt.Errorf("resolve user: %w", err)
	}

	if !u.Active {
		return user.User{}, ErrInvalidToken
	}

	return u, nil
}

// RequireAdmin fails with ErrPermissionDenied unless the user is an admin.
func (s *Service) RequireAdmin(ctx context.Context, userID int64) (user.User, error) {
	u, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return user.User{}, err
	}

	if !u.Admin {
		return user.User{}, ErrPermissionDenied
	}

	return u, nil
}
