package chat

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const chatChannel = "servicepro:chat"

// RedisBus carries stamped room events between instances, so a room's members
// receive broadcasts no matter which process their socket landed on.
type RedisBus struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewRedisBus(rdb *redis.Client, log zerolog.Logger) *RedisBus {
	return &RedisBus{rdb: rdb, log: log}
}

func (b *RedisBus) Publish(ctx context.Context, payload []byte) error {
	return b.rdb.Publish(ctx, chatChannel, payload).Err()
}

// Subscribe feeds everything published on the chat channel into the hub's
// fan-out path. Blocks; run it in its own goroutine.
func (b *RedisBus) Subscribe(ctx context.Context, hub *Hub) {
	pubsub := b.rdb.Subscribe(ctx, chatChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var ev roomEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			b.log.Warn().Err(err).Msg("dropping malformed pubsub payload")
			continue
		}
		hub.Deliver(ev.RoomID, ev.Data)
	}
}
