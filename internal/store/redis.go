package store

import (
	"context"
	"errors"
	"fmt"

	"peerprep/interview/internal/session"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "interview:snapshot:"

// Redis stores the snapshot as a single JSON value
type Redis struct {
	rdb redis.UniversalClient
	key string
}

func NewRedis(rdb redis.UniversalClient) *Redis {
	return &Redis{rdb: rdb, key: redisKeyPrefix + session.SchemaVersion}
}

func (r *Redis) Load(ctx context.Context) (*session.Snapshot, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decode(data)
}

func (r *Redis) Save(ctx context.Context, snap *session.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *Redis) Name() string { return DriverRedis }

func (r *Redis) Close() error {
	return r.rdb.Close()
}
