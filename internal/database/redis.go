package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisConnectTimeout = 5 * time.Second

var (
	newRedisClient   = redis.NewClient
	redisPing        = func(ctx context.Context, client *redis.Client) error { return client.Ping(ctx).Err() }
	closeRedisClient = func(client *redis.Client) error { return client.Close() }
)

// RedisDB holds the session store client. Sessions survive a Redis outage
// through the Postgres fallback, so the pool is kept small.
type RedisDB struct {
	Client *redis.Client
}

func redisOptions(addr, password string, db int) *redis.Options {
	return &redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  redisConnectTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
		MinIdleConns: 1,
	}
}

func NewRedisDB(addr, password string, db int) (*RedisDB, error) {
	client := newRedisClient(redisOptions(addr, password, db))

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	if err := redisPing(ctx, client); err != nil {
		_ = closeRedisClient(client)
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}

	return &RedisDB{Client: client}, nil
}

func (r *RedisDB) Close() error {
	if r.Client == nil {
		return nil
	}
	return closeRedisClient(r.Client)
}

func (r *RedisDB) Health(ctx context.Context) error {
	return redisPing(ctx, r.Client)
}
