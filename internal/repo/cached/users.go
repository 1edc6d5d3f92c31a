// Package cached wraps a user repository with a short-lived cache for
// lookups by id.
package cached

import (
	"context"
	"strconv"
	"time"

	"github.com/geocoder89/usershub/internal/cache"
	"github.com/geocoder89/usershub/internal/domain/user"
)

type UsersRepo struct {
	next  user.Repository
	cache *cache.Cache[user.User]
}

func NewUsersRepo(next user.Repository, ttl time.Duration) *UsersRepo {
	return &UsersRepo{next: next, cache: cache.New[user.User](ttl)}
}

func key(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}

func (r *UsersRepo) Create(ctx context.Context, nu user.NewUser) (user.User, error) {
	u, err := r.next.Create(ctx, nu)
	if err != nil {
		return user.User{}, err
	}

	r.cache.Set(key(u.ID), u)

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	if u, ok := r.cache.Get(key(id)); ok {
		return u, nil
	}

	u, err := r.next.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	r.cache.Set(key(id), u)

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.next.GetByEmail(ctx, email)
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	return r.next.List(ctx)
}

func (r *UsersRepo) SetAdmin(ctx context.Context, id int64, admin bool) error {
	defer r.cache.Delete(key(id))
	return r.next.SetAdmin(ctx, id, admin)
}

func (r *UsersRepo) SetActive(ctx context.Context, id int64, active bool) error {
	defer r.cache.Delete(key(id))
	return r.next.SetActive(ctx, id, active)
}
