package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/LawrenceCirillo/Alan/pkg/api"
)

// RedisStore keeps blueprints as JSON strings under prefixed keys
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to the Redis server addressed by a redis:// or
// rediss:// URL
func NewRedisStore(redisURL, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStoreURL, err)
	}
	return &RedisStore{
		client: redis.NewClient(opts),
		prefix: prefix,
	}, nil
}

func (s *RedisStore) Put(ctx context.Context, bp *api.WorkflowBlueprint) error {
	data, err := encode(bp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.keyFor(bp.WorkflowID), data, 0).Err()
}

func (s *RedisStore) Get(
	ctx context.Context, id api.WorkflowID,
) (*api.WorkflowBlueprint, error) {
	data, err := s.client.Get(ctx, s.keyFor(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decode(data)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) keyFor(id api.WorkflowID) string {
	return s.prefix + string(id)
}
