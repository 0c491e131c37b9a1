package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestCache connects to a local Redis instance. Tests are skipped when
// Redis is not reachable so the suite stays runnable everywhere.
func setupTestCache(t *testing.T) *Cache {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", addr, err)
	}

	c := New(client, "scan-test:", time.Minute)
	t.Cleanup(func() {
		_ = c.DeletePattern(context.Background(), "*")
		_ = c.Close()
	})
	return c
}

type cachedValue struct {
	Kind  string `json:"kind"`
	Stock int    `json:"stock"`
}

func TestCache_GetSet(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	t.Run("miss on unknown key", func(t *testing.T) {
		var out cachedValue
		found, err := c.Get(ctx, "missing", &out)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if found {
			t.Error("expected cache miss")
		}
	})

	t.Run("set then get", func(t *testing.T) {
		in := cachedValue{Kind: "product", Stock: 42}
		if err := c.Set(ctx, "code-1", in); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		var out cachedValue
		found, err := c.Get(ctx, "code-1", &out)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !found {
			t.Fatal("expected cache hit")
		}
		if out != in {
			t.Errorf("expected %+v, got %+v", in, out)
		}
	})
}

func TestCache_Invalidation(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"code-a", "code-b", "code-c"} {
		if err := c.Set(ctx, key, cachedValue{Kind: "product"}); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	t.Run("delete single key", func(t *testing.T) {
		if err := c.Delete(ctx, "code-a"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		var out cachedValue
		found, err := c.Get(ctx, "code-a", &out)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if found {
			t.Error("expected miss after delete")
		}
	})

	t.Run("delete pattern drops remaining keys", func(t *testing.T) {
		if err := c.DeletePattern(ctx, "*"); err != nil {
			t.Fatalf("DeletePattern() error = %v", err)
		}

		for _, key := range []string{"code-b", "code-c"} {
			var out cachedValue
			found, err := c.Get(ctx, key, &out)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if found {
				t.Errorf("expected miss for %s after pattern delete", key)
			}
		}
	})
}

func TestCache_Stats(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	var out cachedValue
	_, _ = c.Get(ctx, "stat-miss", &out)
	_ = c.Set(ctx, "stat-key", cachedValue{Kind: "person"})
	_, _ = c.Get(ctx, "stat-key", &out)

	stats := c.GetStats()
	if stats.Hits < 1 {
		t.Errorf("expected at least 1 hit, got %d", stats.Hits)
	}
	if stats.Misses < 1 {
		t.Errorf("expected at least 1 miss, got %d", stats.Misses)
	}
	if stats.Sets < 1 {
		t.Errorf("expected at least 1 set, got %d", stats.Sets)
	}
}
