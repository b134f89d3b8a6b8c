package cache

import (
	"context"
	"testing"
	"time"

	"github.com/mercado-next/internal/config"
	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	ctx := context.Background()
	if Enabled() {
		t.Fatalf("cache should be disabled")
	}
	if err := SetCategories(ctx, []string{"ropa"}); err != nil {
		t.Fatalf("set categories on disabled cache failed: %v", err)
	}
	if _, hit, err := GetCategories(ctx); hit || err != nil {
		t.Fatalf("disabled cache should miss, hit=%v err=%v", hit, err)
	}
	lock, err := AcquireLock(ctx, "cart:1", time.Second, time.Second)
	if err != nil || lock != nil {
		t.Fatalf("disabled cache lock should be nil, lock=%v err=%v", lock, err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release nil lock failed: %v", err)
	}
}

func TestBuildUserAuthState(t *testing.T) {
	now := time.Now()
	state := BuildUserAuthState(&models.User{
		ID:                 7,
		Role:               constants.RoleSeller,
		Status:             constants.UserStatusActive,
		TokenVersion:       3,
		TokenInvalidBefore: &now,
	})
	if state.UserID != 7 || state.Role != "seller" || state.TokenVersion != 3 {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.TokenInvalidBefore != now.Unix() {
		t.Fatalf("token invalid before want %d got %d", now.Unix(), state.TokenInvalidBefore)
	}
	if BuildUserAuthState(nil) != nil {
		t.Fatalf("nil user should produce nil state")
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	redisPrefix = "mk"
	if got := BuildKey("cart:lock:1"); got != "mk:cart:lock:1" {
		t.Fatalf("key want mk:cart:lock:1 got %s", got)
	}
	if got := BuildKey("  "); got != "mk" {
		t.Fatalf("blank key want mk got %s", got)
	}
}
