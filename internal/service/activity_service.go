package service

import (
	"context"
	"errors"

	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/events"
	"github.com/stockflow/internal/models"
	"github.com/stockflow/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ActivityService 月度活动业务服务
type ActivityService struct {
	brandRepo    repository.BrandRepository
	itemRepo     repository.ItemRepository
	activityRepo repository.ActivityRepository
	publisher    events.Publisher
}

// NewActivityService 创建活动服务
func NewActivityService(
	brandRepo repository.BrandRepository,
	itemRepo repository.ItemRepository,
	activityRepo repository.ActivityRepository,
	publisher events.Publisher,
) *ActivityService {
	return &ActivityService{
		brandRepo:    brandRepo,
		itemRepo:     itemRepo,
		activityRepo: activityRepo,
		publisher:    publisherOrNoop(publisher),
	}
}

// ActivityInput 新增活动输入
// IsTotalTarget=true 时 TargetValue 为当月销售额目标，忽略商品与类型字段。
type ActivityInput struct {
	BrandID         uint             `json:"brand_id" validate:"required"`
	Year            int              `json:"year"`
	Month           int              `json:"month"`
	IsTotalTarget   bool             `json:"is_total_target"`
	ItemID          uint             `json:"item_id"`
	ActivityType    string           `json:"activity_type"`
	NeedTotalTarget bool             `json:"need_total_target"`
	NeedItemTarget  bool             `json:"need_item_target"`
	TargetValue     decimal.Decimal  `json:"target_value"`
	OriginalPrice   *decimal.Decimal `json:"original_price"`
	DiscountPrice   *decimal.Decimal `json:"discount_price"`
}

// ListMonthly 品牌当月活动，总指标在前
func (s *ActivityService) ListMonthly(brandID uint, year, month int) ([]repository.ActivityRow, error) {
	key, err := monthKey(year, month)
	if err != nil {
		return nil, err
	}
	brand, err := s.brandRepo.GetByID(brandID)
	if err != nil {
		return nil, logStoreError("activity_list_failed", err, "brand_id", brandID)
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}
	rows, err := s.activityRepo.ListMonthly(brandID, key)
	if err != nil {
		return nil, logStoreError("activity_list_failed", err, "brand_id", brandID, "month", key)
	}
	return rows, nil
}

// Add 新增活动：总指标按 品牌+月份 更新或插入，单品活动直接插入
func (s *ActivityService) Add(ctx context.Context, input ActivityInput) (*models.Activity, error) {
	if input.IsTotalTarget {
		return s.SetTotalTarget(ctx, input)
	}
	return s.CreateItemActivity(ctx, input)
}

// SetTotalTarget 保存品牌当月总指标，已存在则原地更新目标值与价格
func (s *ActivityService) SetTotalTarget(ctx context.Context, input ActivityInput) (*models.Activity, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	month, err := monthKey(input.Year, input.Month)
	if err != nil {
		return nil, err
	}
	if !input.TargetValue.IsPositive() {
		return nil, newValidationError("target_value", "must be greater than 0")
	}
	if err := validatePrices(input.OriginalPrice, input.DiscountPrice); err != nil {
		return nil, err
	}

	var saved *models.Activity
	action := events.ActionUpdated
	upsert := func(tx *gorm.DB) error {
		brand, err := s.brandRepo.WithTx(tx).GetByID(input.BrandID)
		if err != nil {
			return err
		}
		if brand == nil {
			return ErrBrandNotFound
		}
		repo := s.activityRepo.WithTx(tx)
		existing, err := repo.GetTotalTarget(input.BrandID, month)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.TargetValue = models.NewMoneyFromDecimal(input.TargetValue)
			existing.OriginalPrice = moneyPtr(input.OriginalPrice)
			existing.DiscountPrice = moneyPtr(input.DiscountPrice)
			if err := repo.Update(existing); err != nil {
				return err
			}
			saved = existing
			return nil
		}
		activity := &models.Activity{
			BrandID:       input.BrandID,
			Month:         month,
			IsTotalTarget: true,
			TargetValue:   models.NewMoneyFromDecimal(input.TargetValue),
			OriginalPrice: moneyPtr(input.OriginalPrice),
			DiscountPrice: moneyPtr(input.DiscountPrice),
		}
		if err := repo.Create(activity); err != nil {
			return err
		}
		saved = activity
		action = events.ActionCreated
		return nil
	}

	err = s.activityRepo.Transaction(upsert)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发插入被唯一索引拦截，重试一次即走更新分支
		action = events.ActionUpdated
		err = s.activityRepo.Transaction(upsert)
	}
	if err != nil {
		return nil, logStoreError("activity_total_target_save_failed", err, "brand_id", input.BrandID, "month", month)
	}

	s.publishChange(ctx, action, saved)
	return saved, nil
}

// CreateItemActivity 新增单品活动，商品须已存在且属于该品牌
func (s *ActivityService) CreateItemActivity(ctx context.Context, input ActivityInput) (*models.Activity, error) {
	activity, err := buildItemActivity(input)
	if err != nil {
		return nil, err
	}
	if input.ItemID == 0 {
		return nil, newValidationError("item_id", "is required")
	}

	err = s.activityRepo.Transaction(func(tx *gorm.DB) error {
		item, err := s.itemRepo.WithTx(tx).GetByID(input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrItemNotFound
		}
		if item.BrandID != input.BrandID {
			return ErrItemBrandConflict
		}
		itemID := item.ID
		activity.ItemID = &itemID
		return s.activityRepo.WithTx(tx).Create(activity)
	})
	if err != nil {
		return nil, logStoreError("activity_create_failed", err, "brand_id", input.BrandID, "item_id", input.ItemID)
	}

	s.publishChange(ctx, events.ActionCreated, activity)
	return activity, nil
}

// AddItemActivity 获取或创建商品并新增单品活动，二者同一事务提交
func (s *ActivityService) AddItemActivity(ctx context.Context, itemInput CreateItemInput, input ActivityInput) (*models.Activity, *models.Item, error) {
	itemInput.BrandID = input.BrandID
	itemInput = itemInput.normalize()
	if err := validateStruct(itemInput); err != nil {
		return nil, nil, err
	}
	activity, err := buildItemActivity(input)
	if err != nil {
		return nil, nil, err
	}

	var item *models.Item
	var itemCreated bool
	err = s.activityRepo.Transaction(func(tx *gorm.DB) error {
		var err error
		item, itemCreated, err = getOrCreateItem(s.brandRepo.WithTx(tx), s.itemRepo.WithTx(tx), itemInput)
		if err != nil {
			return err
		}
		itemID := item.ID
		activity.ItemID = &itemID
		return s.activityRepo.WithTx(tx).Create(activity)
	})
	if err != nil {
		return nil, nil, logStoreError("activity_add_with_item_failed", err, "brand_id", input.BrandID, "item_name", itemInput.Name)
	}

	if itemCreated {
		s.publisher.Publish(ctx, events.Event{
			Name:     constants.EventItemChanged,
			Action:   events.ActionCreated,
			BrandID:  item.BrandID,
			EntityID: item.ID,
		})
	}
	s.publishChange(ctx, events.ActionCreated, activity)
	return activity, item, nil
}

// Delete 删除活动，随后清理不再被引用的商品
func (s *ActivityService) Delete(ctx context.Context, id uint) error {
	var activity *models.Activity
	err := s.activityRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.activityRepo.WithTx(tx)
		var err error
		activity, err = repo.GetByID(id)
		if err != nil {
			return err
		}
		if activity == nil {
			return ErrActivityNotFound
		}
		if _, err := repo.Delete(id); err != nil {
			return err
		}
		if activity.ItemID != nil {
			if _, err := s.itemRepo.WithTx(tx).PruneIfUnreferenced(*activity.ItemID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return logStoreError("activity_delete_failed", err, "activity_id", id)
	}
	s.publishChange(ctx, events.ActionDeleted, activity)
	return nil
}

// buildItemActivity 校验单品活动字段；不与总指标挂钩的案后结类型强制不考核总指标
func buildItemActivity(input ActivityInput) (*models.Activity, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	month, err := monthKey(input.Year, input.Month)
	if err != nil {
		return nil, err
	}
	if !isKnownActivityType(input.ActivityType) {
		return nil, newValidationError("activity_type", "is not a supported activity type")
	}
	if input.TargetValue.IsNegative() {
		return nil, newValidationError("target_value", "must not be negative")
	}
	if err := validatePrices(input.OriginalPrice, input.DiscountPrice); err != nil {
		return nil, err
	}

	needTotal := input.NeedTotalTarget
	if input.ActivityType == constants.ActivityTypePostSettlementDetached {
		needTotal = false
	}
	return &models.Activity{
		BrandID:         input.BrandID,
		Month:           month,
		ActivityType:    input.ActivityType,
		NeedTotalTarget: needTotal,
		NeedItemTarget:  input.NeedItemTarget,
		TargetValue:     models.NewMoneyFromDecimal(input.TargetValue),
		OriginalPrice:   moneyPtr(input.OriginalPrice),
		DiscountPrice:   moneyPtr(input.DiscountPrice),
	}, nil
}

func isKnownActivityType(activityType string) bool {
	for _, known := range constants.ActivityTypes {
		if activityType == known {
			return true
		}
	}
	return false
}

func moneyPtr(amount *decimal.Decimal) *models.Money {
	if amount == nil {
		return nil
	}
	return models.NewMoneyPtr(*amount)
}

func (s *ActivityService) publishChange(ctx context.Context, action events.Action, activity *models.Activity) {
	if activity == nil {
		return
	}
	s.publisher.Publish(ctx, events.Event{
		Name:     constants.EventActivityChanged,
		Action:   action,
		BrandID:  activity.BrandID,
		EntityID: activity.ID,
		Month:    activity.Month,
	})
}
