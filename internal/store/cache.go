package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/amterp/tack/internal/model"
)

const cacheOpTimeout = 500 * time.Millisecond

// CachedBoardStore wraps a BoardStore with a Redis read-through cache for
// board configs. Every write goes to the backing store first and then
// evicts the cached copy. Redis failures fall back to the backing store.
type CachedBoardStore struct {
	base   BoardStore
	redis  *redis.Client
	ttl    time.Duration
	prefix string
}

// NewCachedBoardStore wraps base. prefix namespaces keys so several
// projects can share one Redis.
func NewCachedBoardStore(base BoardStore, client *redis.Client, ttl time.Duration, prefix string) *CachedBoardStore {
	if base == nil {
		panic("store.NewCachedBoardStore: base store is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &CachedBoardStore{base: base, redis: client, ttl: ttl, prefix: prefix}
}

func (c *CachedBoardStore) key(boardName string) string {
	return c.prefix + ":board:" + boardName
}

func (c *CachedBoardStore) Create(cfg *model.BoardConfig) error {
	if err := c.base.Create(cfg); err != nil {
		return err
	}
	c.evict(cfg.Name)
	return nil
}

func (c *CachedBoardStore) Get(boardName string) (*model.BoardConfig, error) {
	if cfg, ok := c.load(boardName); ok {
		return cfg, nil
	}

	cfg, err := c.base.Get(boardName)
	if err != nil {
		return nil, err
	}
	c.store(cfg)
	return cfg, nil
}

func (c *CachedBoardStore) Update(cfg *model.BoardConfig) error {
	if err := c.base.Update(cfg); err != nil {
		return err
	}
	c.evict(cfg.Name)
	return nil
}

func (c *CachedBoardStore) Delete(boardName string) error {
	if err := c.base.Delete(boardName); err != nil {
		return err
	}
	c.evict(boardName)
	return nil
}

func (c *CachedBoardStore) List() ([]string, error) {
	return c.base.List()
}

func (c *CachedBoardStore) Exists(boardName string) bool {
	return c.base.Exists(boardName)
}

// Invalidate drops a board's cached config. Used when the file changes
// underneath the server.
func (c *CachedBoardStore) Invalidate(boardName string) {
	c.evict(boardName)
}

func (c *CachedBoardStore) load(boardName string) (*model.BoardConfig, bool) {
	if c.redis == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()

	data, err := c.redis.Get(ctx, c.key(boardName)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).WithField("board", boardName).Debug("board cache read failed")
			_ = c.redis.Del(ctx, c.key(boardName)).Err()
		}
		return nil, false
	}

	var cfg model.BoardConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		_ = c.redis.Del(ctx, c.key(boardName)).Err()
		return nil, false
	}
	return &cfg, true
}

func (c *CachedBoardStore) store(cfg *model.BoardConfig) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	_ = c.redis.Set(ctx, c.key(cfg.Name), data, c.ttl).Err()
}

func (c *CachedBoardStore) evict(boardName string) {
	if c.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	if err := c.redis.Del(ctx, c.key(boardName)).Err(); err != nil {
		log.WithError(err).WithField("board", boardName).Warn("board cache evict failed")
	}
}
