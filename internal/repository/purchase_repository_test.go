package repository

import (
	"testing"
)

func TestPurchaseListByBrandFiltersMonthAndOrdersByDate(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewPurchaseRepository(db)
	brand := mustCreateBrand(t, db, "Acme")
	other := mustCreateBrand(t, db, "Other")
	item := mustCreateItem(t, db, brand.ID, "Cola", 24)
	otherItem := mustCreateItem(t, db, other.ID, "Tea", 1)

	mustCreatePurchase(t, db, item, 2, "5.00", "2024-03-20")
	mustCreatePurchase(t, db, item, 1, "5.00", "2024-03-01")
	mustCreatePurchase(t, db, item, 9, "5.00", "2024-04-01")
	mustCreatePurchase(t, db, item, 3, "5.00", "2024-02-29")
	mustCreatePurchase(t, db, otherItem, 7, "1.00", "2024-03-05")

	rows, total, err := repo.ListByBrand(PurchaseListFilter{BrandID: brand.ID, Month: "2024-03"})
	if err != nil {
		t.Fatalf("list purchases failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("march purchases want 2 got total=%d rows=%d", total, len(rows))
	}
	if rows[0].Date != "2024-03-01" || rows[1].Date != "2024-03-20" {
		t.Fatalf("rows should be ordered by date, got %s,%s", rows[0].Date, rows[1].Date)
	}
	if rows[0].ItemName != "Cola" || rows[0].Spec != 24 {
		t.Fatalf("row should carry item info, got %+v", rows[0])
	}

	paged, total, err := repo.ListByBrand(PurchaseListFilter{BrandID: brand.ID, Page: 2, PageSize: 3})
	if err != nil {
		t.Fatalf("paged list failed: %v", err)
	}
	if total != 4 || len(paged) != 1 || paged[0].Date != "2024-04-01" {
		t.Fatalf("page 2 want single 2024-04-01 row of 4, got total=%d rows=%+v", total, paged)
	}
}

func TestPurchaseFindConflictingBrand(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewPurchaseRepository(db)
	brandA := mustCreateBrand(t, db, "A")
	brandB := mustCreateBrand(t, db, "B")
	item := mustCreateItem(t, db, brandA.ID, "Cola", 1)
	purchase := mustCreatePurchase(t, db, item, 1, "1.00", "2024-03-01")

	conflict, err := repo.FindConflictingBrand(item.ID, brandB.ID, 0)
	if err != nil {
		t.Fatalf("find conflict failed: %v", err)
	}
	if conflict != brandA.ID {
		t.Fatalf("conflict brand want %d got %d", brandA.ID, conflict)
	}

	conflict, err = repo.FindConflictingBrand(item.ID, brandA.ID, 0)
	if err != nil || conflict != 0 {
		t.Fatalf("same brand want no conflict, got %d,%v", conflict, err)
	}

	conflict, err = repo.FindConflictingBrand(item.ID, brandB.ID, purchase.ID)
	if err != nil || conflict != 0 {
		t.Fatalf("excluded purchase want no conflict, got %d,%v", conflict, err)
	}
}

func TestPurchaseUpdateRemarksAndEarliestDate(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewPurchaseRepository(db)

	earliest, err := repo.EarliestDate()
	if err != nil || earliest != "" {
		t.Fatalf("empty earliest want \"\",nil got %q,%v", earliest, err)
	}

	brand := mustCreateBrand(t, db, "Acme")
	item := mustCreateItem(t, db, brand.ID, "Cola", 1)
	purchase := mustCreatePurchase(t, db, item, 1, "1.00", "2023-11-05")
	mustCreatePurchase(t, db, item, 1, "1.00", "2024-01-05")

	earliest, err = repo.EarliestDate()
	if err != nil || earliest != "2023-11-05" {
		t.Fatalf("earliest want 2023-11-05 got %q,%v", earliest, err)
	}

	remarks := "到货破损 2 件"
	affected, err := repo.UpdateRemarks(purchase.ID, &remarks)
	if err != nil || affected != 1 {
		t.Fatalf("update remarks want 1,nil got %d,%v", affected, err)
	}
	updated, err := repo.GetByID(purchase.ID)
	if err != nil {
		t.Fatalf("get purchase failed: %v", err)
	}
	if updated.Remarks == nil || *updated.Remarks != remarks {
		t.Fatalf("remarks want %s got %v", remarks, updated.Remarks)
	}
	if !updated.TotalAmount.Equal(purchase.TotalAmount.Decimal) {
		t.Fatalf("remarks update must not touch amount, got %s", updated.TotalAmount)
	}
}
