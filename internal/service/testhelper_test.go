package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stockflow/internal/events"
	"github.com/stockflow/internal/models"
	"github.com/stockflow/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.Name+":"+string(e.Action))
	}
	return names
}

type testServices struct {
	db        *gorm.DB
	publisher *recordingPublisher
	brands    *BrandService
	items     *ItemService
	purchases *PurchaseService
	activity  *ActivityService
	reports   *ReportService
}

func setupServiceTest(t *testing.T) *testServices {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := models.Open("sqlite", dsn, models.DBPoolConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	brandRepo := repository.NewBrandRepository(db)
	itemRepo := repository.NewItemRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	reportRepo := repository.NewReportRepository(db)
	publisher := &recordingPublisher{}

	return &testServices{
		db:        db,
		publisher: publisher,
		brands:    NewBrandService(brandRepo, publisher),
		items:     NewItemService(brandRepo, itemRepo, publisher),
		purchases: NewPurchaseService(brandRepo, itemRepo, purchaseRepo, publisher),
		activity:  NewActivityService(brandRepo, itemRepo, activityRepo, publisher),
		reports:   NewReportService(brandRepo, activityRepo, reportRepo, nil, nil),
	}
}

func (s *testServices) mustBrand(t *testing.T, name string) *models.Brand {
	t.Helper()
	brand, err := s.brands.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("create brand %s failed: %v", name, err)
	}
	return brand
}

func (s *testServices) mustItem(t *testing.T, brandID uint, name string, spec int) *models.Item {
	t.Helper()
	item, err := s.items.Create(context.Background(), CreateItemInput{Name: name, Spec: spec, Unit: "箱", BrandID: brandID})
	if err != nil {
		t.Fatalf("create item %s failed: %v", name, err)
	}
	return item
}

func (s *testServices) mustPurchase(t *testing.T, item *models.Item, quantity int, price string, date string) *models.Purchase {
	t.Helper()
	purchase, err := s.purchases.Create(context.Background(), PurchaseInput{
		ItemID:    item.ID,
		BrandID:   item.BrandID,
		Quantity:  quantity,
		Unit:      item.Unit,
		UnitPrice: decimal.RequireFromString(price),
		Date:      date,
	})
	if err != nil {
		t.Fatalf("create purchase failed: %v", err)
	}
	return purchase
}

func decPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	return count
}
