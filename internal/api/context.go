package api

import (
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amterp/tack/internal/config"
	"github.com/amterp/tack/internal/service"
	"github.com/amterp/tack/internal/store"
)

const (
	boardCacheTTL = 5 * time.Minute
	redisPrefix   = "tack"
)

// ProjectContext bundles the per-project dependencies the HTTP handlers need.
type ProjectContext struct {
	Paths        *config.Paths
	BoardStore   store.BoardStore
	CardStore    store.CardStore
	CardService  *service.CardService
	BoardService *service.BoardService
	Deduper      Deduper
	ProjectRoot  string

	// Cache is set when board configs are cached in Redis. The file watcher
	// evicts entries for boards edited behind the server's back.
	Cache *store.CachedBoardStore
}

// BuildProjectContext wires stores and services for projectRoot. With a
// non-nil redis client, board configs are cached and idempotency keys are
// shared through Redis; otherwise both stay in process.
func BuildProjectContext(projectRoot string, rdb *redis.Client) (*ProjectContext, error) {
	if projectRoot == "" {
		return nil, fmt.Errorf("project root is required")
	}
	if _, err := os.Stat(projectRoot); err != nil {
		return nil, fmt.Errorf("project path does not exist: %s", projectRoot)
	}

	paths := config.NewPaths(projectRoot)
	cardStore := store.NewCardStore(paths)

	var boardStore store.BoardStore = store.NewBoardStore(paths)
	var cache *store.CachedBoardStore
	var deduper Deduper
	if rdb != nil {
		cache = store.NewCachedBoardStore(boardStore, rdb, boardCacheTTL, redisPrefix)
		boardStore = cache
		deduper = NewRedisDeduper(rdb, DefaultIdempotencyTTL, redisPrefix)
	} else {
		deduper = NewMemoryDeduper(DefaultIdempotencyTTL)
	}

	locks := service.NewBoardLocks()
	return &ProjectContext{
		Paths:        paths,
		BoardStore:   boardStore,
		CardStore:    cardStore,
		CardService:  service.NewCardService(cardStore, boardStore, locks),
		BoardService: service.NewBoardService(boardStore, cardStore, locks),
		Deduper:      deduper,
		ProjectRoot:  projectRoot,
		Cache:        cache,
	}, nil
}
