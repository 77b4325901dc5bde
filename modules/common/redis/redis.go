package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"quel-photoshoot-server/modules/common/config"
)

const pingTimeout = 10 * time.Second

// Options - config 의 Redis 항목 → go-redis 옵션
func Options(cfg *config.Config) *redis.Options {
	opts := &redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Username:     cfg.RedisUsername,
		Password:     cfg.RedisPassword,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	if cfg.RedisUseTLS {
		opts.TLSConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			ServerName:         cfg.RedisHost,
			InsecureSkipVerify: cfg.RedisTLSInsecure, // Render.com Redis 는 자체 인증서
		}
	}
	return opts
}

// Connect - Redis 연결 + ping
// 실패하면 클라이언트를 닫고 에러를 돌려준다. 호출자는 Redis 없이 로컬 취소만으로 동작할 수 있다.
func Connect(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts := Options(cfg)
	log.Info().Str("addr", opts.Addr).Bool("tls", opts.TLSConfig != nil).Msg("🔌 Connecting to Redis")

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	log.Info().Msg("✅ Redis connected")
	return rdb, nil
}
