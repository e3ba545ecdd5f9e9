package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/LawrenceCirillo/Alan/internal/config"
	"github.com/LawrenceCirillo/Alan/pkg/api"
)

// Store persists generated workflow blueprints by ID
type Store interface {
	Put(ctx context.Context, bp *api.WorkflowBlueprint) error
	Get(ctx context.Context, id api.WorkflowID) (*api.WorkflowBlueprint, error)
	Close() error
}

var (
	ErrNotFound        = errors.New("workflow not found")
	ErrInvalidStoreURL = errors.New("invalid store URL")
)

// Open creates the Store addressed by cfg.URL. memory:// selects the
// in-process LRU, redis:// and rediss:// select Redis, and any other
// scheme is opened as a blob bucket
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStoreURL, cfg.URL)
	}

	switch u.Scheme {
	case "memory":
		return NewMemoryStore(cfg.CacheSize), nil
	case "redis", "rediss":
		return NewRedisStore(cfg.URL, cfg.Prefix)
	default:
		return NewBlobStore(ctx, cfg.URL, cfg.Prefix)
	}
}
