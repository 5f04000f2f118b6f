package common

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/go-redis/redis/v8"

	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/logger"
)

var RDB redis.Cmdable

var redisEnabled atomic.Bool

func IsRedisEnabled() bool {
	return redisEnabled.Load()
}

func SetRedisEnabled(enabled bool) {
	redisEnabled.Store(enabled)
}

// InitRedisClient connects to Redis when REDIS_CONN_STRING is set.
// An empty connection string leaves Redis disabled and is not an error.
func InitRedisClient() error {
	if config.RedisConnString == "" {
		SetRedisEnabled(false)
		logger.Logger.Info("REDIS_CONN_STRING not set, Redis is not enabled")
		return nil
	}

	if config.RedisMasterName == "" {
		opt, err := redis.ParseURL(config.RedisConnString)
		if err != nil {
			return errors.Wrap(err, "parse Redis connection string")
		}
		RDB = redis.NewClient(opt)
	} else {
		logger.Logger.Info("Redis cluster mode enabled", zap.String("master", config.RedisMasterName))
		RDB = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:      strings.Split(config.RedisConnString, ","),
			Password:   config.RedisPassword,
			MasterName: config.RedisMasterName,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := RDB.Ping(ctx).Result(); err != nil {
		return errors.Wrap(err, "Redis ping test failed")
	}

	SetRedisEnabled(true)
	logger.Logger.Info("Redis is enabled")
	return nil
}

// CloseRedis releases the client created by InitRedisClient.
func CloseRedis() error {
	closer, ok := RDB.(interface{ Close() error })
	if !ok || closer == nil {
		return nil
	}
	if err := closer.Close(); err != nil {
		return errors.Wrap(err, "close redis")
	}
	return nil
}
