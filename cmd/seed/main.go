package main

import (
	"context"
	"fmt"
	"time"

	"github.com/stockflow/internal/config"
	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/logger"
	"github.com/stockflow/internal/models"
	"github.com/stockflow/internal/provider"
	"github.com/stockflow/internal/service"

	"github.com/shopspring/decimal"
)

type seedItem struct {
	name  string
	spec  int
	unit  string
	price string
	qty   []int // 最近三个月每月进货数量，按时间先后
}

type seedBrand struct {
	name        string
	totalTarget string
	items       []seedItem
}

var demoBrands = []seedBrand{
	{
		name:        "清泉饮品",
		totalTarget: "20000",
		items: []seedItem{
			{name: "矿泉水 550ml", spec: 24, unit: "箱", price: "28.00", qty: []int{120, 150, 90}},
			{name: "柠檬茶 500ml", spec: 15, unit: "箱", price: "45.00", qty: []int{60, 80, 75}},
			{name: "乌龙茶 500ml", spec: 15, unit: "箱", price: "48.00", qty: []int{30, 20, 50}},
		},
	},
	{
		name:        "麦香食品",
		totalTarget: "8000",
		items: []seedItem{
			{name: "全麦面包", spec: 10, unit: "袋", price: "32.50", qty: []int{40, 55, 38}},
			{name: "苏打饼干", spec: 12, unit: "盒", price: "26.00", qty: []int{25, 30, 45}},
		},
	},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	c := provider.NewContainer(cfg)
	defer c.Close()

	ctx := context.Background()
	months := recentMonths(time.Now(), 3)
	for _, demo := range demoBrands {
		existing, err := c.BrandRepo.GetByName(demo.name)
		if err != nil {
			stdLog.Fatalf("Failed to query brand %s: %v", demo.name, err)
		}
		if existing != nil {
			stdLog.Printf("Brand already exists, skipped: %s", demo.name)
			continue
		}
		brand, err := c.BrandService.Create(ctx, demo.name)
		if err != nil {
			stdLog.Fatalf("Failed to create brand %s: %v", demo.name, err)
		}
		stdLog.Printf("Created brand: %s", brand.Name)

		for i, item := range demo.items {
			created, err := c.ItemService.Create(ctx, service.CreateItemInput{
				Name:    item.name,
				Spec:    item.spec,
				Unit:    item.unit,
				BrandID: brand.ID,
			})
			if err != nil {
				stdLog.Fatalf("Failed to create item %s: %v", item.name, err)
			}
			for m, month := range months {
				if m >= len(item.qty) {
					break
				}
				date := month.AddDate(0, 0, 4+i).Format(constants.DateLayout)
				if _, err := c.PurchaseService.Create(ctx, service.PurchaseInput{
					ItemID:    created.ID,
					BrandID:   brand.ID,
					Quantity:  item.qty[m],
					Unit:      item.unit,
					UnitPrice: decimal.RequireFromString(item.price),
					Date:      date,
				}); err != nil {
					stdLog.Fatalf("Failed to create purchase for %s: %v", item.name, err)
				}
			}
		}

		if err := seedActivities(ctx, c, brand.ID, demo, months[len(months)-1]); err != nil {
			stdLog.Fatalf("Failed to create activities for %s: %v", demo.name, err)
		}
	}
	stdLog.Printf("Seed completed")
}

// seedActivities 为最近一个月配置总指标与每个商品一条活动，活动类型轮流使用
func seedActivities(ctx context.Context, c *provider.Container, brandID uint, demo seedBrand, month time.Time) error {
	year, mon := month.Year(), int(month.Month())
	if _, err := c.ActivityService.SetTotalTarget(ctx, service.ActivityInput{
		BrandID:       brandID,
		Year:          year,
		Month:         mon,
		IsTotalTarget: true,
		TargetValue:   decimal.RequireFromString(demo.totalTarget),
	}); err != nil {
		return fmt.Errorf("total target: %w", err)
	}

	for i, item := range demo.items {
		original := decimal.RequireFromString(item.price).Div(decimal.NewFromInt(int64(item.spec))).Round(2)
		discount := original.Mul(decimal.NewFromFloat(0.9)).Round(2)
		activityType := constants.ActivityTypes[i%len(constants.ActivityTypes)]
		_, _, err := c.ActivityService.AddItemActivity(ctx, service.CreateItemInput{
			Name:    item.name,
			Spec:    item.spec,
			Unit:    item.unit,
			BrandID: brandID,
		}, service.ActivityInput{
			BrandID:         brandID,
			Year:            year,
			Month:           mon,
			ActivityType:    activityType,
			NeedTotalTarget: activityType != constants.ActivityTypePostSettlementDetached,
			NeedItemTarget:  true,
			TargetValue:     decimal.NewFromInt(int64(item.qty[len(item.qty)-1] / 2)),
			OriginalPrice:   &original,
			DiscountPrice:   &discount,
		})
		if err != nil {
			return fmt.Errorf("activity for %s: %w", item.name, err)
		}
	}
	return nil
}

// recentMonths 返回截至 now 的最近 n 个自然月的月初，按时间先后
func recentMonths(now time.Time, n int) []time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	months := make([]time.Time, n)
	for i := 0; i < n; i++ {
		months[i] = first.AddDate(0, i-n+1, 0)
	}
	return months
}
