package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/models"

	"github.com/shopspring/decimal"
)

func TestSetTotalTargetUpsertsSingleRow(t *testing.T) {
	s := setupServiceTest(t)
	ctx := context.Background()
	brand := s.mustBrand(t, "Acme")

	first, err := s.activity.Add(ctx, ActivityInput{
		BrandID: brand.ID, Year: 2024, Month: 3, IsTotalTarget: true, TargetValue: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("create total target failed: %v", err)
	}
	second, err := s.activity.Add(ctx, ActivityInput{
		BrandID: brand.ID, Year: 2024, Month: 3, IsTotalTarget: true, TargetValue: decimal.NewFromInt(1500),
	})
	if err != nil {
		t.Fatalf("update total target failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("upsert should keep id %d got %d", first.ID, second.ID)
	}
	if got := countRows(t, s.db, &models.Activity{}, "brand_id = ? AND month = ? AND is_total_target = ?", brand.ID, "2024-03", true); got != 1 {
		t.Fatalf("total target rows want 1 got %d", got)
	}

	rows, err := s.activity.ListMonthly(brand.ID, 2024, 3)
	if err != nil {
		t.Fatalf("list monthly failed: %v", err)
	}
	if len(rows) != 1 || !rows[0].TargetValue.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("total target should be updated to 1500, got %+v", rows)
	}
}

func TestSetTotalTargetRequiresPositiveValue(t *testing.T) {
	s := setupServiceTest(t)
	brand := s.mustBrand(t, "Acme")
	for _, value := range []string{"0", "-5"} {
		_, err := s.activity.SetTotalTarget(context.Background(), ActivityInput{
			BrandID: brand.ID, Year: 2024, Month: 3, IsTotalTarget: true, TargetValue: decimal.RequireFromString(value),
		})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("target %s want ErrValidation got %v", value, err)
		}
	}
	if _, err := s.activity.SetTotalTarget(context.Background(), ActivityInput{
		BrandID: 999, Year: 2024, Month: 3, IsTotalTarget: true, TargetValue: decimal.NewFromInt(1),
	}); !errors.Is(err, ErrBrandNotFound) {
		t.Fatalf("unknown brand want ErrBrandNotFound got %v", err)
	}
}

func TestCreateItemActivityValidation(t *testing.T) {
	s := setupServiceTest(t)
	brand := s.mustBrand(t, "Acme")
	item := s.mustItem(t, brand.ID, "Cola", 24)
	base := ActivityInput{
		BrandID:        brand.ID,
		Year:           2024,
		Month:          3,
		ItemID:         item.ID,
		ActivityType:   constants.ActivityTypeSpecialPrice,
		NeedItemTarget: true,
		TargetValue:    decimal.NewFromInt(100),
		OriginalPrice:  decPtr("10"),
		DiscountPrice:  decPtr("8"),
	}

	cases := map[string]func(in *ActivityInput){
		"negative original": func(in *ActivityInput) { in.OriginalPrice = decPtr("-1") },
		"negative discount": func(in *ActivityInput) { in.DiscountPrice = decPtr("-1") },
		"discount equals":   func(in *ActivityInput) { in.DiscountPrice = decPtr("10") },
		"discount above":    func(in *ActivityInput) { in.DiscountPrice = decPtr("12") },
		"only one price":    func(in *ActivityInput) { in.OriginalPrice = nil },
		"unknown type":      func(in *ActivityInput) { in.ActivityType = "满减" },
		"negative target":   func(in *ActivityInput) { in.TargetValue = decimal.NewFromInt(-1) },
		"invalid month":     func(in *ActivityInput) { in.Month = 0 },
		"missing item":      func(in *ActivityInput) { in.ItemID = 0 },
	}
	for name, mutate := range cases {
		input := base
		mutate(&input)
		if _, err := s.activity.CreateItemActivity(context.Background(), input); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: want ErrValidation got %v", name, err)
		}
	}
	if got := countRows(t, s.db, &models.Activity{}, "1 = 1"); got != 0 {
		t.Fatalf("invalid input must not insert, got %d", got)
	}

	activity, err := s.activity.CreateItemActivity(context.Background(), base)
	if err != nil {
		t.Fatalf("valid item activity failed: %v", err)
	}
	if activity.ItemID == nil || *activity.ItemID != item.ID || activity.Month != "2024-03" {
		t.Fatalf("item activity mismatch: %+v", activity)
	}
}

func TestDetachedPostSettlementIgnoresTotalTarget(t *testing.T) {
	s := setupServiceTest(t)
	brand := s.mustBrand(t, "Acme")
	item := s.mustItem(t, brand.ID, "Cola", 24)

	activity, err := s.activity.CreateItemActivity(context.Background(), ActivityInput{
		BrandID:         brand.ID,
		Year:            2024,
		Month:           3,
		ItemID:          item.ID,
		ActivityType:    constants.ActivityTypePostSettlementDetached,
		NeedTotalTarget: true,
		NeedItemTarget:  true,
		TargetValue:     decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("create activity failed: %v", err)
	}
	if activity.NeedTotalTarget {
		t.Fatalf("detached post settlement must not require total target")
	}
}

func TestCreateItemActivityRejectsOtherBrandItem(t *testing.T) {
	s := setupServiceTest(t)
	brandA := s.mustBrand(t, "A")
	brandB := s.mustBrand(t, "B")
	item := s.mustItem(t, brandA.ID, "Cola", 24)

	_, err := s.activity.CreateItemActivity(context.Background(), ActivityInput{
		BrandID:      brandB.ID,
		Year:         2024,
		Month:        3,
		ItemID:       item.ID,
		ActivityType: constants.ActivityTypeBundledGift,
		TargetValue:  decimal.NewFromInt(10),
	})
	if !errors.Is(err, ErrItemBrandConflict) {
		t.Fatalf("other brand item want ErrItemBrandConflict got %v", err)
	}
}

func TestAddItemActivityIsAtomic(t *testing.T) {
	s := setupServiceTest(t)
	ctx := context.Background()
	brand := s.mustBrand(t, "Acme")

	activity, item, err := s.activity.AddItemActivity(ctx,
		CreateItemInput{Name: "Cola", Spec: 24, Unit: "箱"},
		ActivityInput{
			BrandID:        brand.ID,
			Year:           2024,
			Month:          3,
			ActivityType:   constants.ActivityTypePostSettlement,
			NeedItemTarget: true,
			TargetValue:    decimal.NewFromInt(10),
		},
	)
	if err != nil {
		t.Fatalf("add item activity failed: %v", err)
	}
	if item.BrandID != brand.ID || activity.ItemID == nil || *activity.ItemID != item.ID {
		t.Fatalf("activity should reference new item, got activity=%+v item=%+v", activity, item)
	}

	_, _, err = s.activity.AddItemActivity(ctx,
		CreateItemInput{Name: "Tea", Spec: 12, Unit: "箱"},
		ActivityInput{BrandID: 999, Year: 2024, Month: 3, ActivityType: constants.ActivityTypePostSettlement},
	)
	if !errors.Is(err, ErrBrandNotFound) {
		t.Fatalf("unknown brand want ErrBrandNotFound got %v", err)
	}
	if got := countRows(t, s.db, &models.Item{}, "item_name = ?", "Tea"); got != 0 {
		t.Fatalf("failed add must not leave an item behind, got %d", got)
	}
}

func TestDeleteActivityPrunesItemAndKeepsTotalTargetFirst(t *testing.T) {
	s := setupServiceTest(t)
	ctx := context.Background()
	brand := s.mustBrand(t, "Acme")

	activity, item, err := s.activity.AddItemActivity(ctx,
		CreateItemInput{Name: "Cola", Spec: 24, Unit: "箱"},
		ActivityInput{BrandID: brand.ID, Year: 2024, Month: 3, ActivityType: constants.ActivityTypeSpecialPrice, TargetValue: decimal.NewFromInt(5)},
	)
	if err != nil {
		t.Fatalf("add item activity failed: %v", err)
	}
	if _, err := s.activity.SetTotalTarget(ctx, ActivityInput{
		BrandID: brand.ID, Year: 2024, Month: 3, IsTotalTarget: true, TargetValue: decimal.NewFromInt(1000),
	}); err != nil {
		t.Fatalf("set total target failed: %v", err)
	}

	rows, err := s.activity.ListMonthly(brand.ID, 2024, 3)
	if err != nil {
		t.Fatalf("list monthly failed: %v", err)
	}
	if len(rows) != 2 || !rows[0].IsTotalTarget || rows[1].ActivityID != activity.ID {
		t.Fatalf("total target should come first, got %+v", rows)
	}

	if err := s.activity.Delete(ctx, activity.ID); err != nil {
		t.Fatalf("delete activity failed: %v", err)
	}
	if got := countRows(t, s.db, &models.Item{}, "item_id = ?", item.ID); got != 0 {
		t.Fatalf("orphan item must be pruned, got %d", got)
	}
	if err := s.activity.Delete(ctx, activity.ID); !errors.Is(err, ErrActivityNotFound) {
		t.Fatalf("second delete want ErrActivityNotFound got %v", err)
	}
}
