package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "interview_completed"

// RedisPublisher forwards completion events on a redis pub/sub channel so other
// services (history, notifications) can react to finished interviews.
type RedisPublisher struct {
	rdb     redis.UniversalClient
	channel string
	types   map[Type]bool
}

// NewRedisPublisher publishes only the given event types, or completions when none are given
func NewRedisPublisher(rdb redis.UniversalClient, channel string, types ...Type) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	if len(types) == 0 {
		types = []Type{InterviewCompleted}
	}
	allowed := make(map[Type]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	return &RedisPublisher{rdb: rdb, channel: channel, types: allowed}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	if !p.types[e.Type] {
		return nil
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", e.Type, err)
	}
	return nil
}
