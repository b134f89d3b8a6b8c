package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mercado-next/internal/cache"
	"github.com/mercado-next/internal/logger"
)

const (
	defaultCartLockTTL  = 10 * time.Second
	defaultCartLockWait = 5 * time.Second
)

// keyedLocker 按 key 串行化购物车变更：进程内互斥 + Redis 分布式锁（启用时）
type keyedLocker struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
	ttl   time.Duration
	wait  time.Duration
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

func newKeyedLocker(ttl, wait time.Duration) *keyedLocker {
	if ttl <= 0 {
		ttl = defaultCartLockTTL
	}
	if wait <= 0 {
		wait = defaultCartLockWait
	}
	return &keyedLocker{
		slots: make(map[string]*lockSlot),
		ttl:   ttl,
		wait:  wait,
	}
}

// Lock 获取 key 对应的锁，返回释放函数
func (l *keyedLocker) Lock(ctx context.Context, key string) (func(), error) {
	slot := l.acquireSlot(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()
	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.releaseSlot(key, slot)
		return nil, ctx.Err()
	case <-timer.C:
		l.releaseSlot(key, slot)
		return nil, ErrCartBusy
	}

	distributed, err := cache.AcquireLock(ctx, "lock:"+key, l.ttl, l.wait)
	if err != nil {
		<-slot.ch
		l.releaseSlot(key, slot)
		if errors.Is(err, cache.ErrLockNotAcquired) {
			return nil, ErrCartBusy
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, wrapStorage("acquire distributed lock", err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if distributed != nil {
				if err := distributed.Release(context.Background()); err != nil {
					logger.Warnw("cart_lock_release_failed", "key", key, "error", err)
				}
			}
			<-slot.ch
			l.releaseSlot(key, slot)
		})
	}, nil
}

func (l *keyedLocker) acquireSlot(key string) *lockSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	return slot
}

func (l *keyedLocker) releaseSlot(key string, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs <= 0 {
		delete(l.slots, key)
	}
}
