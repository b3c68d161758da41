package memo

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/datedmemo/datedmemo/internal/errors"
)

// RedisClient is the subset of *redis.Client a RedisStore needs.
type RedisClient interface {
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Close() error
}

// RedisStore keeps every memo as a JSON value in one hash keyed by id.
type RedisStore struct {
	client RedisClient
	key    string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKey sets the hash key. Default: "datedmemo:memos".
func WithRedisKey(key string) RedisStoreOption {
	return func(s *RedisStore) {
		s.key = key
	}
}

// NewRedisStore wraps client.
func NewRedisStore(client RedisClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		key:    "datedmemo:memos",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Put(ctx context.Context, m Memo) error {
	data, err := json.Marshal(m)
	if err != nil {
		return errors.New("E202").Wrap(err)
	}
	if err := s.client.HSet(ctx, s.key, m.ID, data).Err(); err != nil {
		return errors.New("E202").Wrap(err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Memo, error) {
	data, err := s.client.HGet(ctx, s.key, id).Bytes()
	if err == redis.Nil {
		return Memo{}, ErrNotFound
	}
	if err != nil {
		return Memo{}, errors.New("E202").Wrap(err)
	}

	var m Memo
	if err := json.Unmarshal(data, &m); err != nil {
		return Memo{}, errors.New("E204").WithDetail("Memo " + id + " could not be decoded.").Wrap(err)
	}
	return m, nil
}

func (s *RedisStore) List(ctx context.Context) ([]Memo, error) {
	all, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, errors.New("E202").Wrap(err)
	}

	out := make([]Memo, 0, len(all))
	for id, raw := range all {
		var m Memo
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, errors.New("E204").WithDetail("Memo " + id + " could not be decoded.").Wrap(err)
		}
		out = append(out, m)
	}
	slices.SortFunc(out, byDate)
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.HDel(ctx, s.key, id).Err(); err != nil {
		return errors.New("E202").Wrap(err)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
