package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/events"
	"github.com/stockflow/internal/models"
	"github.com/stockflow/internal/repository"

	"gorm.io/gorm"
)

const maxBrandNameLength = 100

// BrandService 品牌业务服务
type BrandService struct {
	repo      repository.BrandRepository
	publisher events.Publisher
}

// NewBrandService 创建品牌服务
func NewBrandService(repo repository.BrandRepository, publisher events.Publisher) *BrandService {
	return &BrandService{repo: repo, publisher: publisherOrNoop(publisher)}
}

// List 品牌列表
func (s *BrandService) List() ([]models.Brand, error) {
	brands, err := s.repo.List()
	if err != nil {
		return nil, logStoreError("brand_list_failed", err)
	}
	return brands, nil
}

// Get 获取品牌
func (s *BrandService) Get(id uint) (*models.Brand, error) {
	brand, err := s.repo.GetByID(id)
	if err != nil {
		return nil, logStoreError("brand_get_failed", err, "brand_id", id)
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}
	return brand, nil
}

// Create 新增品牌，名称重复返回 ErrBrandExists 且不写入
func (s *BrandService) Create(ctx context.Context, name string) (*models.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newValidationError("brand_name", "is required")
	}
	if utf8.RuneCountInString(name) > maxBrandNameLength {
		return nil, newValidationError("brand_name", "must be at most 100 characters")
	}

	var created *models.Brand
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.GetByName(name)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrBrandExists
		}
		brand := &models.Brand{Name: name}
		if err := repo.Create(brand); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrBrandExists
			}
			return err
		}
		created = brand
		return nil
	})
	if err != nil {
		return nil, logStoreError("brand_create_failed", err, "brand_name", name)
	}

	s.publisher.Publish(ctx, events.Event{
		Name:     constants.EventBrandChanged,
		Action:   events.ActionCreated,
		BrandID:  created.ID,
		EntityID: created.ID,
	})
	return created, nil
}

// Delete 删除品牌及其全部商品、进货记录与活动
func (s *BrandService) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(id)
	if err != nil {
		return logStoreError("brand_delete_failed", err, "brand_id", id)
	}
	if affected == 0 {
		return ErrBrandNotFound
	}
	s.publisher.Publish(ctx, events.Event{
		Name:     constants.EventBrandChanged,
		Action:   events.ActionDeleted,
		BrandID:  id,
		EntityID: id,
	})
	return nil
}
