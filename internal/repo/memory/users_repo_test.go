package memory_test

import (
	"context"
	"testing"

	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/repo/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersRepo_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUsersRepo()

	robo, err := repo.Create(ctx, user.NewUser{Username: "robo", Email: "atomic_robo@tesladyne.com", PasswordHash: "x"})
	require.NoError(t, err)
	marty, err := repo.Create(ctx, user.NewUser{Username: "marty", Email: "goalie30@devils.com", PasswordHash: "x"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), robo.ID)
	assert.Equal(t, int64(2), marty.ID)
	assert.True(t, robo.Active)
	assert.False(t, robo.Admin)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "robo", users[0].Username)
	assert.Equal(t, "marty", users[1].Username)
}

func TestUsersRepo_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUsersRepo()

	_, err := repo.Create(ctx, user.NewUser{Username: "michael", Email: "michael@mherman.org", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, user.NewUser{Username: "other", Email: "michael@mherman.org", PasswordHash: "y"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUsersRepo_GetAndFlags(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUsersRepo()

	u, err := repo.Create(ctx, user.NewUser{Username: "dicky", Email: "otis@bosstones.com", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, 737)
	assert.ErrorIs(t, err, user.ErrNotFound)
	_, err = repo.GetByID(ctx, 0)
	assert.ErrorIs(t, err, user.ErrNotFound)

	require.NoError(t, repo.SetAdmin(ctx, u.ID, true))
	require.NoError(t, repo.SetActive(ctx, u.ID, false))

	got, err := repo.GetByEmail(ctx, "otis@bosstones.com")
	require.NoError(t, err)
	assert.True(t, got.Admin)
	assert.False(t, got.Active)

	assert.ErrorIs(t, repo.SetAdmin(ctx, 99, true), user.ErrNotFound)
}

func TestUsersRepo_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUsersRepo()

	_, err := repo.Create(ctx, user.NewUser{Username: "a", Email: "a@a.com", PasswordHash: "x"})
	require.NoError(t, err)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	users[0].Username = "mutated"

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Username)
}
