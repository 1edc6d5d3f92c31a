package repo_test

import (
	"context"
	"testing"

	"github.com/geocoder89/usershub/internal/config"
	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()

	store, err := repo.Open(config.Config{DBDriver: config.DriverSQLite, SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NotNil(t, store.SQL)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Ping(ctx))

	_, err = store.Users.Create(ctx, user.NewUser{Username: "robo", Email: "atomic_robo@tesladyne.com", PasswordHash: "x"})
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx))

	users, err := store.Users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()

	store, err := repo.Open(config.Config{DBDriver: config.DriverMemory}, nil)
	require.NoError(t, err)

	assert.Nil(t, store.SQL)
	assert.NoError(t, store.Migrate(ctx))
	assert.NoError(t, store.Ping(ctx))
	assert.NoError(t, store.Close())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := repo.Open(config.Config{DBDriver: "mysql"}, nil)
	assert.ErrorIs(t, err, config.ErrUnknownDBDriver)
}
