package service

import (
	"context"
	"errors"
	"strings"

	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/events"
	"github.com/stockflow/internal/models"
	"github.com/stockflow/internal/repository"

	"gorm.io/gorm"
)

// ItemService 商品业务服务
type ItemService struct {
	brandRepo repository.BrandRepository
	itemRepo  repository.ItemRepository
	publisher events.Publisher
}

// NewItemService 创建商品服务
func NewItemService(brandRepo repository.BrandRepository, itemRepo repository.ItemRepository, publisher events.Publisher) *ItemService {
	return &ItemService{brandRepo: brandRepo, itemRepo: itemRepo, publisher: publisherOrNoop(publisher)}
}

// CreateItemInput 新增商品输入
type CreateItemInput struct {
	Name    string `json:"item_name" validate:"required,max=200"`
	Spec    int    `json:"spec" validate:"gt=0"`
	Unit    string `json:"unit" validate:"required,max=20"`
	BrandID uint   `json:"brand_id" validate:"required"`
}

func (in CreateItemInput) normalize() CreateItemInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	if in.Unit == "" {
		in.Unit = constants.DefaultItemUnit
	}
	return in
}

// List 商品列表
func (s *ItemService) List(filter repository.ItemListFilter) ([]models.Item, error) {
	items, err := s.itemRepo.List(filter)
	if err != nil {
		return nil, logStoreError("item_list_failed", err, "brand_id", filter.BrandID)
	}
	return items, nil
}

// Create 获取或创建商品，相同 名称+规格+单位+品牌 返回已有商品
func (s *ItemService) Create(ctx context.Context, input CreateItemInput) (*models.Item, error) {
	input = input.normalize()
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	var item *models.Item
	var created bool
	err := s.brandRepo.Transaction(func(tx *gorm.DB) error {
		var err error
		item, created, err = getOrCreateItem(s.brandRepo.WithTx(tx), s.itemRepo.WithTx(tx), input)
		return err
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发写入同一商品，回查已提交的记录
		item, err = s.itemRepo.FindByIdentity(input.Name, input.Spec, input.Unit, input.BrandID)
		if err == nil && item == nil {
			err = ErrItemNotFound
		}
		created = false
	}
	if err != nil {
		return nil, logStoreError("item_create_failed", err, "item_name", input.Name, "brand_id", input.BrandID)
	}

	if created {
		s.publisher.Publish(ctx, events.Event{
			Name:     constants.EventItemChanged,
			Action:   events.ActionCreated,
			BrandID:  item.BrandID,
			EntityID: item.ID,
		})
	}
	return item, nil
}

// getOrCreateItem 在调用方事务内执行存在性检查与插入
func getOrCreateItem(brandRepo repository.BrandRepository, itemRepo repository.ItemRepository, input CreateItemInput) (*models.Item, bool, error) {
	brand, err := brandRepo.GetByID(input.BrandID)
	if err != nil {
		return nil, false, err
	}
	if brand == nil {
		return nil, false, ErrBrandNotFound
	}
	existing, err := itemRepo.FindByIdentity(input.Name, input.Spec, input.Unit, input.BrandID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	item := &models.Item{
		Name:    input.Name,
		Spec:    input.Spec,
		Unit:    input.Unit,
		BrandID: input.BrandID,
	}
	if err := itemRepo.Create(item); err != nil {
		return nil, false, err
	}
	return item, true, nil
}
