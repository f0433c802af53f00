package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/models"

	"github.com/redis/go-redis/v9"
)

// NovelCache is a read-through cache for novel details. Misses and backend
// errors are both treated as "not cached"; correctness never depends on it.
type NovelCache interface {
	Get(ctx context.Context, id int64) (*models.Novel, bool)
	Set(ctx context.Context, novel *models.Novel)
	Invalidate(ctx context.Context, id int64)
}

type novelCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNovelCache connects to redis at addr. The returned cache is nil-safe:
// callers may hold a nil NovelCache when redis is not configured.
func NewNovelCache(addr, password string, ttl time.Duration) (NovelCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &novelCache{client: rdb, ttl: ttl}, nil
}

func novelKey(id int64) string {
	return fmt.Sprintf("novel:%d", id)
}

func (c *novelCache) Get(ctx context.Context, id int64) (*models.Novel, bool) {
	payload, err := c.client.Get(ctx, novelKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var novel models.Novel
	if err := json.Unmarshal(payload, &novel); err != nil {
		// stale or corrupt entry, drop it
		c.client.Del(ctx, novelKey(id))
		return nil, false
	}
	return &novel, true
}

func (c *novelCache) Set(ctx context.Context, novel *models.Novel) {
	payload, err := json.Marshal(novel)
	if err != nil {
		return
	}
	c.client.Set(ctx, novelKey(novel.ID), payload, c.ttl)
}

func (c *novelCache) Invalidate(ctx context.Context, id int64) {
	c.client.Del(ctx, novelKey(id))
}
