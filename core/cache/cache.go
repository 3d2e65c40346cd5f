package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/legacy-sukawarna/rsvp-app/core/constants"
	"github.com/legacy-sukawarna/rsvp-app/core/logger"
)

// Cache is the Redis-backed session-adjacent state: blacklisted JWTs after
// logout and one-shot OAuth state nonces. Domain data never lives here.
type Cache interface {
	AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	SetOAuthState(ctx context.Context, state string) error
	ConsumeOAuthState(ctx context.Context, state string) (bool, error)
	Close() error
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type redisCache struct {
	client *redis.Client
}

func InitRedis(config RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Cache:InitRedis:Ping:Error", "error", err, "addr", config.Addr)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis initialized successfully", "addr", config.Addr, "db", config.DB)
	return &redisCache{client: client}, nil
}

func (c *redisCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing to blacklist.
		return nil
	}
	key := constants.RedisKeyTokenBlacklist + token
	if err := c.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		logger.Error("Cache:AddToTokenBlacklist:Error", "error", err)
		return err
	}
	return nil
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := constants.RedisKeyTokenBlacklist + token
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		logger.Error("Cache:IsTokenBlacklisted:Error", "error", err)
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) SetOAuthState(ctx context.Context, state string) error {
	key := constants.RedisKeyOAuthState + state
	if err := c.client.Set(ctx, key, "1", constants.OAuthStateTTL).Err(); err != nil {
		logger.Error("Cache:SetOAuthState:Error", "error", err, "state", state)
		return err
	}
	return nil
}

// ConsumeOAuthState deletes the state atomically so each nonce authorizes
// exactly one callback.
func (c *redisCache) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	key := constants.RedisKeyOAuthState + state
	n, err := c.client.Del(ctx, key).Result()
	if err != nil {
		logger.Error("Cache:ConsumeOAuthState:Error", "error", err, "state", state)
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
