package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stockflow/internal/repository"

	"github.com/shopspring/decimal"
)

type memoryReportCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newMemoryReportCache() *memoryReportCache {
	return &memoryReportCache{data: map[string][]byte{}}
}

func (c *memoryReportCache) key(kind string, brandID uint, month string) string {
	return fmt.Sprintf("%s:%d:%s", kind, brandID, month)
}

func (c *memoryReportCache) Get(_ context.Context, kind string, brandID uint, month string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.data[c.key(kind, brandID, month)]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryReportCache) Set(_ context.Context, kind string, brandID uint, month string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[c.key(kind, brandID, month)] = raw
	return nil
}

func (c *memoryReportCache) getCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}

func TestReportWarmOverwritesStaleCache(t *testing.T) {
	s := setupServiceTest(t)
	ctx := context.Background()
	cache := newMemoryReportCache()
	reports := NewReportService(
		repository.NewBrandRepository(s.db),
		repository.NewActivityRepository(s.db),
		repository.NewReportRepository(s.db),
		cache,
		nil,
	)

	brand := s.mustBrand(t, "Acme")
	item := s.mustItem(t, brand.ID, "Cola", 1)
	s.mustPurchase(t, item, 2, "10", "2024-03-01")

	first, err := reports.ComputeExpense(ctx, brand.ID, 2024, 3)
	if err != nil {
		t.Fatalf("compute expense failed: %v", err)
	}
	if !first.OriginalExpense.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("original expense want 20 got %s", first.OriginalExpense)
	}

	// 写入在缓存之后提交，缓存中仍是旧报表
	s.mustPurchase(t, item, 3, "10", "2024-03-02")
	stale, err := reports.ComputeExpense(ctx, brand.ID, 2024, 3)
	if err != nil {
		t.Fatalf("compute expense failed: %v", err)
	}
	if !stale.OriginalExpense.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("cached expense want 20 got %s", stale.OriginalExpense)
	}

	getsBefore := cache.getCount()
	warmed, err := reports.Warm(ctx, brand.ID, 2024, 3)
	if err != nil {
		t.Fatalf("warm failed: %v", err)
	}
	if cache.getCount() != getsBefore {
		t.Fatalf("warm should not read the cache")
	}
	if !warmed.OriginalExpense.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("warmed expense want 50 got %s", warmed.OriginalExpense)
	}

	expense, err := reports.ComputeExpense(ctx, brand.ID, 2024, 3)
	if err != nil {
		t.Fatalf("compute expense failed: %v", err)
	}
	if !expense.OriginalExpense.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expense after warm want 50 got %s", expense.OriginalExpense)
	}
	completion, err := reports.ComputeCompletion(ctx, brand.ID, 2024, 3)
	if err != nil {
		t.Fatalf("compute completion failed: %v", err)
	}
	if !completion.ActualTotalSales.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("completion after warm want 50 got %s", completion.ActualTotalSales)
	}
}

func TestReportWarmMissingBrand(t *testing.T) {
	s := setupServiceTest(t)
	if _, err := s.reports.Warm(context.Background(), 404, 2024, 3); err != ErrBrandNotFound {
		t.Fatalf("warm missing brand want %v got %v", ErrBrandNotFound, err)
	}
}
