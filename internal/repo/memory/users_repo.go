package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/usershub/internal/domain/user"
)

// UsersRepo keeps users in insertion order. Used by tests and DB_DRIVER=memory.
type UsersRepo struct {
	mu      sync.RWMutex
	nextID  int64
	items   []user.User
	byEmail map[string]int // email -> index into items
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		nextID:  1,
		byEmail: make(map[string]int),
	}
}

func (r *UsersRepo) Create(ctx context.Context, nu user.NewUser) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[nu.Email]; ok {
		return user.User{}, user.ErrEmailTaken
	}

	u := user.User{
		ID:           r.nextID,
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		Active:       true,
		Admin:        nu.Admin,
		CreatedAt:    time.Now().UTC(),
	}
	r.nextID++

	r.byEmail[u.Email] = len(r.items)
	r.items = append(r.items, u)

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.indexOf(id)
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return r.items[idx], nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return r.items[idx], nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, len(r.items))
	copy(out, r.items)

	return out, nil
}

func (r *UsersRepo) SetAdmin(ctx context.Context, id int64, admin bool) error {
	return r.update(id, func(u *user.User) { u.Admin = admin })
}

func (r *UsersRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return r.update(id, func(u *user.User) { u.Active = active })
}

// Ping lets the readiness check treat every store the same way.
func (r *UsersRepo) Ping(ctx context.Context) error {
	return nil
}

func (r *UsersRepo) update(id int64, fn func(*user.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.indexOf(id)
	if !ok {
		return user.ErrNotFound
	}

	fn(&r.items[idx])

	return nil
}

// ids are dense and start at 1, so the index is id-1.
func (r *UsersRepo) indexOf(id int64) (int, bool) {
	idx := int(id - 1)
	if id < 1 || idx >= len(r.items) {
		return 0, false
	}

	return idx, true
}
