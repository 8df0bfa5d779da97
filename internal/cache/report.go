package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/stockflow/internal/events"
	"github.com/stockflow/internal/logger"
)

// ReportCache 报表结果缓存，数据变更后按品牌整体失效
type ReportCache struct {
	ttl time.Duration
}

// NewReportCache 创建报表缓存；ttl<=0 时不缓存
func NewReportCache(ttl time.Duration) *ReportCache {
	return &ReportCache{ttl: ttl}
}

func (c *ReportCache) active() bool {
	return c != nil && c.ttl > 0 && Enabled()
}

// Get 读取缓存报表
func (c *ReportCache) Get(ctx context.Context, kind string, brandID uint, month string, dest interface{}) (bool, error) {
	if !c.active() {
		return false, nil
	}
	return GetJSON(ctx, reportKey(kind, brandID, month), dest)
}

// Set 写入缓存报表
func (c *ReportCache) Set(ctx context.Context, kind string, brandID uint, month string, value interface{}) error {
	if !c.active() {
		return nil
	}
	return SetJSON(ctx, reportKey(kind, brandID, month), value, c.ttl)
}

// InvalidateBrand 清除品牌全部月份的缓存报表
func (c *ReportCache) InvalidateBrand(ctx context.Context, brandID uint) error {
	if !c.active() {
		return nil
	}
	_, err := DelByPattern(ctx, brandReportPattern(brandID))
	return err
}

// Attach 订阅数据变更事件，失效对应品牌的报表缓存
func (c *ReportCache) Attach(bus *events.Bus) func() {
	return bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		if event.BrandID == 0 {
			return
		}
		if err := c.InvalidateBrand(ctx, event.BrandID); err != nil {
			logger.Warnw("report_cache_invalidate_failed",
				"brand_id", event.BrandID,
				"event", event.Name,
				"error", err,
			)
		}
	})
}

func reportKey(kind string, brandID uint, month string) string {
	return fmt.Sprintf("report:%d:%s:%s", brandID, kind, month)
}

func brandReportPattern(brandID uint) string {
	return fmt.Sprintf("report:%d:*", brandID)
}
