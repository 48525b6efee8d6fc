package database

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	redisConnectAttempts = 3
	redisPingTimeout     = 5 * time.Second
)

// redisOptions prefers REDIS_URL over the discrete host, port and password.
func redisOptions(cfg *config.Config) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  redisPingTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}, nil
}

// NewRedisClient connects to the plan store, retrying the initial ping so the
// API can start alongside a Redis container that is still booting.
func NewRedisClient(cfg *config.Config, log logrus.FieldLogger) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	var pingErr error
	for attempt := 1; attempt <= redisConnectAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		pingErr = client.Ping(ctx).Err()
		cancel()
		if pingErr == nil {
			log.WithFields(logrus.Fields{"addr": opts.Addr, "db": opts.DB}).Info("Successfully connected to Redis")
			return client, nil
		}
		log.WithError(pingErr).WithField("attempt", attempt).Warn("Redis not reachable")
		if attempt < redisConnectAttempts {
			time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
		}
	}

	client.Close()
	return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, pingErr)
}
