// README: Redis-backed rejection set tests; skipped unless HAIL_TEST_REDIS is set.
package ride

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"hail/internal/types"
)

func setupTestRejections(t *testing.T) *RedisRejections {
	t.Helper()

	addr := os.Getenv("HAIL_TEST_REDIS")
	if addr == "" {
		t.Skip("HAIL_TEST_REDIS not set; skipping redis-backed tests")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}
	keys, err := client.Keys(ctx, "rides:*:rejected").Result()
	if err != nil {
		t.Fatalf("list keys: %v", err)
	}
	if len(keys) > 0 {
		if err := client.Del(ctx, keys...).Err(); err != nil {
			t.Fatalf("clear keys: %v", err)
		}
	}

	return NewRedisRejections(client)
}

func TestRedisRejectionsAddAndFilter(t *testing.T) {
	rejections := setupTestRejections(t)
	ctx := context.Background()

	if err := rejections.Add(ctx, "ride-1", "driver-1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Adding twice is a no-op.
	if err := rejections.Add(ctx, "ride-1", "driver-1"); err != nil {
		t.Fatalf("second add: %v", err)
	}

	got, err := rejections.FilterRejected(ctx, []types.ID{"ride-1", "ride-2"}, "driver-1")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if !got["ride-1"] || got["ride-2"] {
		t.Fatalf("filter = %v", got)
	}

	// Another driver is unaffected.
	got, err = rejections.FilterRejected(ctx, []types.ID{"ride-1"}, "driver-2")
	if err != nil {
		t.Fatalf("filter other driver: %v", err)
	}
	if got["ride-1"] {
		t.Fatalf("driver-2 sees driver-1's rejection: %v", got)
	}
}

func TestRedisRejectionsEmptyInput(t *testing.T) {
	rejections := setupTestRejections(t)

	got, err := rejections.FilterRejected(context.Background(), nil, "driver-1")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
