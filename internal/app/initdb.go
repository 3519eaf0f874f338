package app

import (
	"context"
	"fmt"

	"github.com/IT-Nick/group-quiz-bot/internal/infra/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// InitDatabase устанавливает подключение к базе данных
func InitDatabase(ctx context.Context, cfg config.Database, logger zerolog.Logger) (*pgxpool.Pool, error) {
	const op = "app.InitDatabase"

	connConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse database config: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, connConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create database pool: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	logger.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("database connected")
	return db, nil
}

// InitRedis подключается к Redis для кэша имен
func InitRedis(ctx context.Context, cfg config.Redis, logger zerolog.Logger) (*redis.Client, error) {
	const op = "app.InitRedis"

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: failed to ping redis: %w", op, err)
	}

	logger.Info().Str("addr", cfg.Addr).Msg("redis connected")
	return client, nil
}
