package app

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/ItsFelix5/flavor-adventure/internal/config"
	"github.com/ItsFelix5/flavor-adventure/internal/db"
	"github.com/ItsFelix5/flavor-adventure/internal/redis"

	_ "github.com/lib/pq"
)

// Infra holds the optional backing services. The gateway runs without
// either: no database means default user flags and no map registry, no
// Redis means presence reads as offline.
type Infra struct {
	DB    *sql.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	if cfg.DatabaseDSN != "" {
		sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, err
		}
		if err := db.RunGatewayMigration(ctx, sqlDB); err != nil {
			return nil, err
		}
		infra.DB = sqlDB
		log.Info().Msg("database ready")
	} else {
		log.Warn().Msg("no DATABASE_DSN, running without user storage")
	}

	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		infra.Redis = redisClient
		log.Info().Msg("redis ready")
	} else {
		log.Warn().Msg("no REDIS_ADDR, running without presence tracking")
	}

	return infra, nil
}

func (i *Infra) Close() error {
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			return err
		}
	}
	if i.DB != nil {
		return i.DB.Close()
	}
	return nil
}
