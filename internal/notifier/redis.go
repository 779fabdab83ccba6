package notifier

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisPublisher pushes stock updates onto the pub/sub channel for
// cross-process consumers (other gateway nodes, reporting, cache warmers).
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, update StockUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Error().Err(err).Msg("stock update marshal failed")
		return
	}
	if err := p.rdb.Publish(ctx, Channel, data).Err(); err != nil {
		// Broker unreachable — the stock change is already committed, so the
		// event is dropped, not retried.
		log.Warn().Str("variant", update.VariantID.String()).Err(err).
			Msg("stock update publish failed")
	}
}
