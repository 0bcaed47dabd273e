package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vvitengg/admissions-backend/internal/config"
	"github.com/vvitengg/admissions-backend/internal/model"
)

// RedisEvents pushes committed submissions onto the side-effect queues and
// the admin feed channel. Publish failures are logged and swallowed — the
// record is already durable and the user's submission must not fail.
type RedisEvents struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisEvents creates a RedisEvents publisher.
func NewRedisEvents(rdb *redis.Client, log zerolog.Logger) *RedisEvents {
	return &RedisEvents{
		rdb: rdb,
		log: log.With().Str("component", "events").Logger(),
	}
}

// Publish enqueues the event for the notification and slip workers and
// broadcasts it on the live-feed channel.
func (e *RedisEvents) Publish(ctx context.Context, ev model.AdmissionEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		e.log.Error().Err(err).Msg("Marshal admission event")
		return
	}

	for _, queue := range []string{config.QueueKey.NotifyQueue, config.QueueKey.SlipQueue} {
		if err := e.rdb.LPush(ctx, queue, payload).Err(); err != nil {
			e.log.Error().Err(err).Str("queue", queue).
				Str("admission_id", ev.AdmissionID).
				Msg("Enqueue side effect failed")
		}
	}

	if err := e.rdb.Publish(ctx, config.QueueKey.FeedChannel, payload).Err(); err != nil {
		e.log.Error().Err(err).
			Str("admission_id", ev.AdmissionID).
			Msg("Feed publish failed")
	}
}
