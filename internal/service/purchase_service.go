package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/events"
	"github.com/stockflow/internal/logger"
	"github.com/stockflow/internal/models"
	"github.com/stockflow/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseService 进货记录业务服务
type PurchaseService struct {
	brandRepo    repository.BrandRepository
	itemRepo     repository.ItemRepository
	purchaseRepo repository.PurchaseRepository
	publisher    events.Publisher
	now          func() time.Time
}

// NewPurchaseService 创建进货记录服务
func NewPurchaseService(
	brandRepo repository.BrandRepository,
	itemRepo repository.ItemRepository,
	purchaseRepo repository.PurchaseRepository,
	publisher events.Publisher,
) *PurchaseService {
	return &PurchaseService{
		brandRepo:    brandRepo,
		itemRepo:     itemRepo,
		purchaseRepo: purchaseRepo,
		publisher:    publisherOrNoop(publisher),
		now:          time.Now,
	}
}

// PurchaseInput 新增/编辑进货记录输入
type PurchaseInput struct {
	ItemID      uint             `json:"item_id" validate:"required"`
	BrandID     uint             `json:"brand_id" validate:"required"`
	Quantity    int              `json:"quantity" validate:"gt=0"`
	Unit        string           `json:"unit" validate:"required,max=20"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	TotalAmount *decimal.Decimal `json:"total_amount"` // 为空时按 数量 × 单价 计算
	Date        string           `json:"date" validate:"required"`
	Remarks     *string          `json:"remarks"`
}

// ListPurchasesInput 进货记录分页查询输入，Year/Month 均为 0 表示不按月过滤
type ListPurchasesInput struct {
	BrandID  uint
	Page     int
	PageSize int
	Year     int
	Month    int
}

// List 分页查询品牌进货记录
func (s *PurchaseService) List(input ListPurchasesInput) ([]repository.PurchaseRow, int64, error) {
	if _, err := s.requireBrand(s.brandRepo, input.BrandID); err != nil {
		return nil, 0, logStoreError("purchase_list_failed", err, "brand_id", input.BrandID)
	}
	filter := repository.PurchaseListFilter{
		BrandID:  input.BrandID,
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = constants.DefaultPageSize
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}
	if input.Year != 0 || input.Month != 0 {
		month, err := monthKey(input.Year, input.Month)
		if err != nil {
			return nil, 0, err
		}
		filter.Month = month
	}

	rows, total, err := s.purchaseRepo.ListByBrand(filter)
	if err != nil {
		return nil, 0, logStoreError("purchase_list_failed", err, "brand_id", input.BrandID)
	}
	return rows, total, nil
}

// EarliestYear 最早进货年份，无记录时返回当前年份
func (s *PurchaseService) EarliestYear() (int, error) {
	earliest, err := s.purchaseRepo.EarliestDate()
	if err != nil {
		return 0, logStoreError("purchase_earliest_date_failed", err)
	}
	if len(earliest) >= 4 {
		if year, convErr := strconv.Atoi(earliest[:4]); convErr == nil {
			return year, nil
		}
		logger.Warnw("purchase_earliest_date_invalid", "date", earliest)
	}
	return s.now().Year(), nil
}

// Create 新增进货记录；商品已通过历史进货绑定其他品牌时返回 ErrItemBrandConflict
func (s *PurchaseService) Create(ctx context.Context, input PurchaseInput) (*models.Purchase, error) {
	purchase, err := s.buildPurchase(input)
	if err != nil {
		return nil, err
	}

	err = s.purchaseRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.checkItemBinding(tx, purchase.ItemID, purchase.BrandID, 0); err != nil {
			return err
		}
		return s.purchaseRepo.WithTx(tx).Create(purchase)
	})
	if err != nil {
		if errors.Is(err, ErrItemBrandConflict) {
			logger.Warnw("purchase_item_brand_conflict", "item_id", input.ItemID, "brand_id", input.BrandID)
		}
		return nil, logStoreError("purchase_create_failed", err, "item_id", input.ItemID, "brand_id", input.BrandID)
	}

	s.publishChange(ctx, events.ActionCreated, purchase)
	return purchase, nil
}

// Update 编辑进货记录；更换商品后原商品无引用时一并删除
func (s *PurchaseService) Update(ctx context.Context, id uint, input PurchaseInput) (*models.Purchase, error) {
	updated, err := s.buildPurchase(input)
	if err != nil {
		return nil, err
	}

	var purchase *models.Purchase
	var previous models.Purchase
	err = s.purchaseRepo.Transaction(func(tx *gorm.DB) error {
		purchaseRepo := s.purchaseRepo.WithTx(tx)
		current, err := purchaseRepo.GetByID(id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrPurchaseNotFound
		}
		if err := s.checkItemBinding(tx, updated.ItemID, updated.BrandID, id); err != nil {
			return err
		}

		previous = *current
		previousItemID := current.ItemID
		current.ItemID = updated.ItemID
		current.BrandID = updated.BrandID
		current.Quantity = updated.Quantity
		current.Unit = updated.Unit
		current.UnitPrice = updated.UnitPrice
		current.TotalAmount = updated.TotalAmount
		current.Date = updated.Date
		current.Remarks = updated.Remarks
		if err := purchaseRepo.Update(current); err != nil {
			return err
		}
		if previousItemID != current.ItemID {
			if _, err := s.itemRepo.WithTx(tx).PruneIfUnreferenced(previousItemID); err != nil {
				return err
			}
		}
		purchase = current
		return nil
	})
	if err != nil {
		return nil, logStoreError("purchase_update_failed", err, "purchase_id", id)
	}

	// 跨月或跨品牌的编辑，原品牌月份的报表也需要刷新
	if previous.BrandID != purchase.BrandID || purchaseMonth(previous.Date) != purchaseMonth(purchase.Date) {
		s.publishChange(ctx, events.ActionUpdated, &previous)
	}
	s.publishChange(ctx, events.ActionUpdated, purchase)
	return purchase, nil
}

// UpdateRemarks 仅修改备注，空白备注视为清空
func (s *PurchaseService) UpdateRemarks(ctx context.Context, id uint, remarks *string) (*models.Purchase, error) {
	var purchase *models.Purchase
	err := s.purchaseRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.purchaseRepo.WithTx(tx)
		affected, err := repo.UpdateRemarks(id, normalizeRemarks(remarks))
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrPurchaseNotFound
		}
		purchase, err = repo.GetByID(id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return ErrPurchaseNotFound
		}
		return nil
	})
	if err != nil {
		return nil, logStoreError("purchase_update_remarks_failed", err, "purchase_id", id)
	}
	s.publishChange(ctx, events.ActionUpdated, purchase)
	return purchase, nil
}

// Delete 删除进货记录，随后清理不再被引用的商品
func (s *PurchaseService) Delete(ctx context.Context, id uint) error {
	var purchase *models.Purchase
	err := s.purchaseRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.purchaseRepo.WithTx(tx)
		var err error
		purchase, err = repo.GetByID(id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return ErrPurchaseNotFound
		}
		if _, err := repo.Delete(id); err != nil {
			return err
		}
		pruned, err := s.itemRepo.WithTx(tx).PruneIfUnreferenced(purchase.ItemID)
		if err != nil {
			return err
		}
		if pruned {
			logger.Debugw("item_pruned", "item_id", purchase.ItemID, "purchase_id", id)
		}
		return nil
	})
	if err != nil {
		return logStoreError("purchase_delete_failed", err, "purchase_id", id)
	}
	s.publishChange(ctx, events.ActionDeleted, purchase)
	return nil
}

// buildPurchase 校验输入并生成待写入记录
func (s *PurchaseService) buildPurchase(input PurchaseInput) (*models.Purchase, error) {
	input.Unit = strings.TrimSpace(input.Unit)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if !input.UnitPrice.IsPositive() {
		return nil, newValidationError("unit_price", "must be greater than 0")
	}
	date, err := parseDate("date", input.Date)
	if err != nil {
		return nil, err
	}

	expected := input.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))).Round(2)
	total := expected
	if input.TotalAmount != nil {
		total = input.TotalAmount.Round(2)
		if !total.Equal(expected) {
			return nil, newValidationError("total_amount", "must equal quantity × unit_price ("+expected.StringFixed(2)+")")
		}
	}

	return &models.Purchase{
		ItemID:      input.ItemID,
		BrandID:     input.BrandID,
		Quantity:    input.Quantity,
		Unit:        input.Unit,
		UnitPrice:   models.NewMoneyFromDecimal(input.UnitPrice),
		TotalAmount: models.NewMoneyFromDecimal(total),
		Date:        date,
		Remarks:     normalizeRemarks(input.Remarks),
	}, nil
}

// checkItemBinding 商品须存在且归属该品牌，并且历史进货未绑定其他品牌
func (s *PurchaseService) checkItemBinding(tx *gorm.DB, itemID, brandID, excludePurchaseID uint) error {
	if _, err := s.requireBrand(s.brandRepo.WithTx(tx), brandID); err != nil {
		return err
	}
	item, err := s.itemRepo.WithTx(tx).GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	if item.BrandID != brandID {
		return ErrItemBrandConflict
	}
	conflict, err := s.purchaseRepo.WithTx(tx).FindConflictingBrand(itemID, brandID, excludePurchaseID)
	if err != nil {
		return err
	}
	if conflict != 0 {
		return ErrItemBrandConflict
	}
	return nil
}

func (s *PurchaseService) requireBrand(repo repository.BrandRepository, brandID uint) (*models.Brand, error) {
	brand, err := repo.GetByID(brandID)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}
	return brand, nil
}

func (s *PurchaseService) publishChange(ctx context.Context, action events.Action, purchase *models.Purchase) {
	if purchase == nil {
		return
	}
	s.publisher.Publish(ctx, events.Event{
		Name:     constants.EventPurchaseChanged,
		Action:   action,
		BrandID:  purchase.BrandID,
		EntityID: purchase.ID,
		Month:    purchaseMonth(purchase.Date),
	})
}

// purchaseMonth 进货日期所在月份 YYYY-MM
func purchaseMonth(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}
