package redis

import (
	"context"
	"net"
	"time"

	"lodge/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	pingTimeout  = 5 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
)

// Options maps CACHE_REDIS_PRIMARY onto client options.
func Options(config *config.Config) *goRedis.Options {
	primary := config.Cache.Redis.Primary

	return &goRedis.Options{
		Addr:         net.JoinHostPort(primary.Host, primary.Port),
		Password:     primary.Password,
		DB:           primary.DB,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}

// New connects to the primary Redis and exits when it cannot be reached. Caching and rate
// limiting degrade gracefully afterwards but are required at startup.
func New(config *config.Config) *goRedis.Client {
	options := Options(config)
	client := goRedis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", options.Addr).Msg("Failed to connect to Redis")
	}

	log.Info().Str("addr", options.Addr).Int("db", options.DB).Msg("Connected to Redis")

	return client
}
