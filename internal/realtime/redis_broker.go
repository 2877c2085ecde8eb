package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisBroker carries broadcast events over a Redis pub/sub channel so every
// replica's hub sees posts published on any instance. Delivery inherits Redis
// pub/sub semantics: at-most-once, nothing persisted for absent subscribers.
type RedisBroker struct {
	rdb     *redis.Client
	channel string
	logger  *logrus.Logger
}

func NewRedisBroker(rdb *redis.Client, channel string, logger *logrus.Logger) *RedisBroker {
	return &RedisBroker{rdb: rdb, channel: channel, logger: logger}
}

// Publish marshals the event envelope and publishes it to the channel.
func (b *RedisBroker) Publish(ctx context.Context, event string, payload any) error {
	msg, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, msg).Err()
}

// Bridge subscribes to the channel and forwards every message to the hub
// until the context is canceled. Intended to run as a dedicated goroutine.
func (b *RedisBroker) Bridge(ctx context.Context, hub *Hub) {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			hub.Broadcast([]byte(msg.Payload))
		}
	}
}
