package ratelimit_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/usershub/internal/ratelimit"
	"github.com/geocoder89/usershub/internal/redisclient"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real redis only when REDIS_ADDR is set.
func TestRedis_Hit(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redisclient.New(redisclient.Config{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx))

	store := ratelimit.NewRedis(client.Raw(), "usershub-test:")
	key := "ip:" + uuid.NewString()
	t.Cleanup(func() { client.Raw().Del(ctx, "usershub-test:"+key) })

	n, resetIn, err := store.Hit(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Greater(t, resetIn, time.Duration(0))
	assert.LessOrEqual(t, resetIn, time.Minute)

	n, _, err = store.Hit(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
