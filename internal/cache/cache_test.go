package cache

import (
	"context"
	"path"
	"testing"
	"time"

	"github.com/stockflow/internal/config"
	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/events"
)

func TestReportKeysShareBrandPrefix(t *testing.T) {
	key := reportKey("expense", 12, "2024-03")
	if key != "report:12:expense:2024-03" {
		t.Fatalf("report key mismatch: %s", key)
	}
	if brandReportPattern(12) != "report:12:*" {
		t.Fatalf("brand pattern mismatch: %s", brandReportPattern(12))
	}
	if matched, _ := path.Match(brandReportPattern(1), key); matched {
		t.Fatalf("brand 1 pattern must not match brand 12 keys")
	}
	if matched, _ := path.Match(brandReportPattern(12), key); !matched {
		t.Fatalf("brand 12 pattern should match its own keys")
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	if got := buildKey(" report:1:expense:2024-03 "); got != constants.DefaultRedisPrefix+":report:1:expense:2024-03" {
		t.Fatalf("build key mismatch: %s", got)
	}
	if got := buildKey(""); got != constants.DefaultRedisPrefix {
		t.Fatalf("empty key should return prefix, got %s", got)
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() {
		t.Fatalf("redis should be disabled")
	}

	ctx := context.Background()
	reportCache := NewReportCache(time.Minute)
	var dest map[string]interface{}
	hit, err := reportCache.Get(ctx, "expense", 1, "2024-03", &dest)
	if err != nil || hit {
		t.Fatalf("disabled cache get want false,nil got %v,%v", hit, err)
	}
	if err := reportCache.Set(ctx, "expense", 1, "2024-03", map[string]int{"a": 1}); err != nil {
		t.Fatalf("disabled cache set failed: %v", err)
	}
	if err := reportCache.InvalidateBrand(ctx, 1); err != nil {
		t.Fatalf("disabled cache invalidate failed: %v", err)
	}

	var nilCache *ReportCache
	if hit, err := nilCache.Get(ctx, "expense", 1, "2024-03", &dest); hit || err != nil {
		t.Fatalf("nil cache get want false,nil got %v,%v", hit, err)
	}
}

func TestAttachHandlersTolerateDisabledRedis(t *testing.T) {
	bus := events.NewBus()
	detachCache := NewReportCache(time.Minute).Attach(bus)
	detachForwarder := AttachEventForwarder(bus, "events")
	defer detachCache()
	defer detachForwarder()

	bus.Publish(context.Background(), events.Event{Name: constants.EventPurchaseChanged, BrandID: 3})

	noop := AttachEventForwarder(bus, " ")
	noop()
}
