package guard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// busy:{key} -> owner token, expires after ttl so a crashed station cannot
// hold the flag forever.
const keyBusy = "kasir:busy:%s"

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type redisGuard struct {
	rdb *redis.Client
	ttl time.Duration
	log *logrus.Logger
}

// NewRedis shares busy flags between station processes through Redis.
func NewRedis(rdb *redis.Client, ttl time.Duration, log *logrus.Logger) Guard {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &redisGuard{rdb: rdb, ttl: ttl, log: log}
}

// NewRedisClient mirrors how the station dials Redis elsewhere.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 2 * time.Second,
	})
}

func (g *redisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := fmt.Sprintf(keyBusy, key)
	token := uuid.NewString()

	ok, err := g.rdb.SetNX(ctx, redisKey, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, ErrBusy
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, g.rdb, []string{redisKey}, token).Err(); err != nil {
				g.log.WithError(err).WithField("key", key).Warn("failed to release busy flag")
			}
		})
	}, nil
}
