package notifier

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// StartRelay subscribes to the stock-update channel and forwards events
// published by other processes into the local Hub. Enable it on gateway
// nodes that hold WebSocket connections but do not process mutations
// themselves; a node that both publishes and relays would deliver its own
// events twice.
func StartRelay(ctx context.Context, rdb *redis.Client, hub *Hub) {
	sub := rdb.Subscribe(ctx, Channel)
	go func() {
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("notifier relay shutting down")
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var update StockUpdate
				if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
					log.Error().Err(err).Msg("relay: bad stock update payload")
					continue
				}
				hub.Publish(ctx, update)
			}
		}
	}()
	log.Info().Str("channel", Channel).Msg("notifier relay started")
}
