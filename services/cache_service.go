package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"storefront_server/config"
	"storefront_server/lib"
	"storefront_server/structs"
	"sync"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/jpillora/backoff"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// SessionStore keeps short-lived per-user records such as payment drafts and admin edit state.
type SessionStore interface {
	Load(ctx context.Context, userID uuid.UUID, name string, dest any) (bool, error)
	Save(ctx context.Context, userID uuid.UUID, name string, value any) error
	Forget(ctx context.Context, userID uuid.UUID, name string) error
}

// CacheService provides Redis backed sessions, rate limits and token revocation
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

var _ SessionStore = (*CacheService)(nil)

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: getRedisClient(),
	}
}

// getRedisClient lazily builds the process-wide Redis pool from config.
func getRedisClient() *redis.Client {
	redisOnce.Do(func() {
		c := config.GetConfig().Cache
		redisClient = redis.NewClient(&redis.Options{
			Addr:            c.Address,
			Username:        c.Username,
			Password:        c.Password,
			DB:              c.DB,
			PoolSize:        c.PoolSize,
			MinIdleConns:    c.MinIdleConns,
			MaxIdleConns:    c.MaxIdleConns,
			PoolTimeout:     c.PoolTimeout,
			ConnMaxIdleTime: c.IdleTimeout,
			DialTimeout:     c.DialTimeout,
			ReadTimeout:     c.ReadTimeout,
			WriteTimeout:    c.WriteTimeout,
			MaxRetries:      c.MaxRetries,
			MinRetryBackoff: c.MinRetryBackoff,
			MaxRetryBackoff: c.MaxRetryBackoff,
		})
	})
	return redisClient
}

func (cs *CacheService) Close() error {
	if cs.client == nil {
		return nil
	}
	return cs.client.Close()
}

const cacheAttempts = 3

// withRetry repeats op while it fails with a transport error, at most attempts times.
func (cs *CacheService) withRetry(ctx context.Context, op func() error, attempts int) error {
	b := backoff.Backoff{Min: 50 * time.Millisecond, Max: time.Second, Factor: 2, Jitter: true}

	for n := 1; ; n++ {
		err := op()
		if err == nil || !isRetryableCacheError(err) {
			return err
		}
		if n >= attempts {
			return fmt.Errorf("redis: giving up after %d attempts: %w", n, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.Duration()):
		}
	}
}

// isRetryableCacheError is true for dropped or timed out connections. redis.Nil and server replies are final.
func isRetryableCacheError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func sessionKey(userID uuid.UUID, name string) string {
	return fmt.Sprintf("session:%s:%s", userID, name)
}

// Save stores a JSON session record for the user, sealed when a session key is configured
func (cs *CacheService) Save(ctx context.Context, userID uuid.UUID, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", name, err)
	}

	payload := string(data)
	if key := cs.config.Cache.SessionKey; key != "" {
		if payload, err = lib.Seal(data, key); err != nil {
			return fmt.Errorf("failed to seal session %s: %w", name, err)
		}
	}

	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, sessionKey(userID, name), payload, cs.config.Cache.SessionTTL).Err()
	}, cacheAttempts)
}

// Load reads a session record into dest. It reports false when nothing is stored.
func (cs *CacheService) Load(ctx context.Context, userID uuid.UUID, name string, dest any) (bool, error) {
	var raw string

	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Get(ctx, sessionKey(userID, name)).Result()
		if err != nil {
			return err
		}
		raw = val
		return nil
	}, cacheAttempts)
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	data := []byte(raw)
	if key := cs.config.Cache.SessionKey; key != "" {
		if data, err = lib.Open(raw, key); err != nil {
			// unreadable records are dropped rather than failing the request
			cs.logger.Warn("Discarding unreadable session record",
				gecho.Field("name", name),
				gecho.Field("error", err),
			)
			_ = cs.Forget(ctx, userID, name)
			return false, nil
		}
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode session %s: %w", name, err)
	}
	return true, nil
}

// Forget removes a session record
func (cs *CacheService) Forget(ctx context.Context, userID uuid.UUID, name string) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Del(ctx, sessionKey(userID, name)).Err()
	}, cacheAttempts)
}

// BlacklistToken revokes an access token until it would have expired anyway
func (cs *CacheService) BlacklistToken(ctx context.Context, jti uuid.UUID, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, "blacklist:"+jti.String(), 1, ttl).Err()
	}, cacheAttempts)
}

// IsTokenBlacklisted reports whether the token id was revoked
func (cs *CacheService) IsTokenBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error) {
	var exists int64
	err := cs.withRetry(ctx, func() error {
		n, err := cs.client.Exists(ctx, "blacklist:"+jti.String()).Result()
		exists = n
		return err
	}, cacheAttempts)
	return exists > 0, err
}

// IncrementRateLimit bumps the fixed-window counter for ip and endpoint. The window starts on the first hit.
func (cs *CacheService) IncrementRateLimit(ctx context.Context, ip, endpoint string, window time.Duration) (int, error) {
	key := "ratelimit:" + ip + ":" + endpoint

	var incr *redis.IntCmd
	err := cs.withRetry(ctx, func() error {
		_, err := cs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, window)
			return nil
		})
		return err
	}, cacheAttempts)
	if err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (cs *CacheService) Ping(ctx context.Context) error {
	return cs.client.Ping(ctx).Err()
}
