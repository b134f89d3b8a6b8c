package service

import (
	"context"
	"sync"
	"time"

	"github.com/mercado-next/internal/cache"
	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/logger"
)

// SessionEvent 会话变更事件
type SessionEvent struct {
	Type      string         `json:"type"`
	UserID    uint           `json:"user_id"`
	Role      constants.Role `json:"role"`
	ExpiresAt time.Time      `json:"expires_at,omitempty"`
	At        time.Time      `json:"at"`
}

// SessionSubscriber 会话事件订阅函数
type SessionSubscriber func(SessionEvent)

type sessionSubscription struct {
	id uint64
	fn SessionSubscriber
}

// SessionHub 会话事件中心，显式持有订阅列表
type SessionHub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []sessionSubscription
	closed bool
}

// NewSessionHub 创建会话事件中心
func NewSessionHub() *SessionHub {
	return &SessionHub{}
}

// Subscribe 注册订阅，返回取消函数（可重复调用）
func (h *SessionHub) Subscribe(fn SessionSubscriber) func() {
	if h == nil || fn == nil {
		return func() {}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return func() {}
	}
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, sessionSubscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { h.unsubscribe(id) })
	}
}

func (h *SessionHub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, sub := range h.subs {
		if sub.id == id {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			return
		}
	}
}

// Publish 按订阅顺序同步分发事件
func (h *SessionHub) Publish(event SessionEvent) {
	if h == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	snapshot := make([]sessionSubscription, len(h.subs))
	copy(snapshot, h.subs)
	h.mu.RUnlock()

	for _, sub := range snapshot {
		deliverSessionEvent(sub, event)
	}
}

func deliverSessionEvent(sub sessionSubscription, event SessionEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("session_subscriber_panic", "subscriber_id", sub.id, "event", event.Type, "panic", r)
		}
	}()
	sub.fn(event)
}

// SubscriberCount 当前订阅数
func (h *SessionHub) SubscriberCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close 清空订阅并停止分发
func (h *SessionHub) Close() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.subs = nil
}

// AuthStateCacheSubscriber 退出登录时删除鉴权快照，迫使下次请求回源校验 token 版本
func AuthStateCacheSubscriber(event SessionEvent) {
	if event.Type != constants.SessionEventSignedOut {
		return
	}
	if err := cache.DelUserAuthState(context.Background(), event.UserID); err != nil {
		logger.Warnw("session_auth_state_invalidate_failed", "user_id", event.UserID, "error", err)
	}
}

// SessionLogSubscriber 记录会话变更
func SessionLogSubscriber(event SessionEvent) {
	logger.Infow("session_changed",
		"event", event.Type,
		"user_id", event.UserID,
		"role", event.Role.String(),
	)
}
