package repository

import (
	"path/filepath"
	"testing"

	"github.com/stockflow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
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
	return db
}

func mustCreateBrand(t *testing.T, db *gorm.DB, name string) *models.Brand {
	t.Helper()
	brand := &models.Brand{Name: name}
	if err := db.Create(brand).Error; err != nil {
		t.Fatalf("create brand failed: %v", err)
	}
	return brand
}

func mustCreateItem(t *testing.T, db *gorm.DB, brandID uint, name string, spec int) *models.Item {
	t.Helper()
	item := &models.Item{Name: name, Spec: spec, Unit: "件", BrandID: brandID}
	if err := db.Omit("Brand").Create(item).Error; err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	return item
}

func mustCreatePurchase(t *testing.T, db *gorm.DB, item *models.Item, quantity int, price string, date string) *models.Purchase {
	t.Helper()
	unitPrice := decimal.RequireFromString(price)
	purchase := &models.Purchase{
		ItemID:      item.ID,
		BrandID:     item.BrandID,
		Quantity:    quantity,
		Unit:        item.Unit,
		UnitPrice:   models.NewMoneyFromDecimal(unitPrice),
		TotalAmount: models.NewMoneyFromDecimal(unitPrice.Mul(decimal.NewFromInt(int64(quantity)))),
		Date:        date,
	}
	if err := db.Omit("Item", "Brand").Create(purchase).Error; err != nil {
		t.Fatalf("create purchase failed: %v", err)
	}
	return purchase
}
