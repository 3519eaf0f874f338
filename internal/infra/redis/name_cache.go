package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/IT-Nick/group-quiz-bot/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const opTimeout = 2 * time.Second

// NameCache кэш имен участников в Redis с локальной копией в памяти.
// Локальная копия отвечает сразу, Redis сохраняет имена между перезапусками и репликами.
type NameCache struct {
	client *redis.Client
	ttl    time.Duration
	local  *memory.NameCache
	logger zerolog.Logger
}

// NewNameCache ttl равный нулю означает хранение без срока
func NewNameCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *NameCache {
	return &NameCache{
		client: client,
		ttl:    ttl,
		local:  memory.NewNameCache(),
		logger: logger,
	}
}

func (c *NameCache) Remember(ctx context.Context, participantID int64, name string) error {
	if name == "" {
		return nil
	}
	if cached, ok := c.local.Name(ctx, participantID); ok && cached == name {
		return nil
	}
	_ = c.local.Remember(ctx, participantID, name)

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return c.client.Set(ctx, c.key(participantID), name, c.ttl).Err()
}

func (c *NameCache) Name(ctx context.Context, participantID int64) (string, bool) {
	if name, ok := c.local.Name(ctx, participantID); ok {
		return name, true
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	name, err := c.client.Get(ctx, c.key(participantID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.Warn().Err(err).Int64("participant_id", participantID).Msg("redis name lookup failed")
		return "", false
	}

	_ = c.local.Remember(ctx, participantID, name)
	return name, true
}

func (c *NameCache) key(participantID int64) string {
	return "quiz:name:" + strconv.FormatInt(participantID, 10)
}
