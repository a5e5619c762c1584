package store

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var testRedisURL string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		// No Docker: the redis engine is skipped, the rest still runs.
		fmt.Fprintf(os.Stderr, "redis container unavailable, skipping redis engine: %v\n", err)
		os.Exit(m.Run())
	}

	testRedisURL, err = container.ConnectionString(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get redis endpoint: %v\n", err)
		_ = container.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	_ = container.Terminate(ctx)
	os.Exit(code)
}

func setupTestRedis(t *testing.T) *RedisKV {
	t.Helper()

	kv, err := NewRedisKV(testRedisURL)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, kv.Ping(ctx))
	// Flush all keys before each test
	require.NoError(t, kv.rdb.FlushAll(ctx).Err())

	t.Cleanup(func() {
		_ = kv.Close()
	})

	return kv
}
