package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired 在等待时间内未获取到锁
var ErrLockNotAcquired = errors.New("cache lock not acquired")

const lockRetryInterval = 25 * time.Millisecond

// 仅当持有者令牌匹配时才删除，避免误删他人续占的锁
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock 基于 SET NX PX 的分布式互斥锁
type Lock struct {
	client *redis.Client
	key    string
	token  string
}

// AcquireLock 在 wait 时间内尝试获取锁，ttl 为锁的最长持有时间
// Redis 未启用时返回 nil 锁与 nil 错误，调用方按单实例处理
func AcquireLock(ctx context.Context, key string, ttl, wait time.Duration) (*Lock, error) {
	if !Enabled() {
		return nil, nil
	}
	return acquireLock(ctx, redisClient, buildKey(key), ttl, wait)
}

func acquireLock(ctx context.Context, client *redis.Client, fullKey string, ttl, wait time.Duration) (*Lock, error) {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	token := uuid.NewString()
	deadline := time.Now().Add(wait)
	for {
		ok, err := client.SetNX(ctx, fullKey, token, ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return &Lock{client: client, key: fullKey, token: token}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrLockNotAcquired
		}
		timer := time.NewTimer(lockRetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Release 释放锁，锁已过期或被他人持有时静默返回
func (l *Lock) Release(ctx context.Context) error {
	if l == nil || l.client == nil {
		return nil
	}
	return releaseLockScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
}
