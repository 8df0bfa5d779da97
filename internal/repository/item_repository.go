package repository

import (
	"errors"
	"strings"

	"github.com/stockflow/internal/models"

	"gorm.io/gorm"
)

// ItemRepository 商品数据访问接口
type ItemRepository interface {
	GetByID(id uint) (*models.Item, error)
	FindByIdentity(name string, spec int, unit string, brandID uint) (*models.Item, error)
	List(filter ItemListFilter) ([]models.Item, error)
	Create(item *models.Item) error
	CountReferences(id uint) (int64, error)
	PruneIfUnreferenced(id uint) (bool, error)
	WithTx(tx *gorm.DB) ItemRepository
}

// GormItemRepository GORM 实现
type GormItemRepository struct {
	db *gorm.DB
}

// NewItemRepository 创建商品仓库
func NewItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// WithTx 绑定事务
func (r *GormItemRepository) WithTx(tx *gorm.DB) ItemRepository {
	if tx == nil {
		return r
	}
	return &GormItemRepository{db: tx}
}

// GetByID 根据 ID 获取商品
func (r *GormItemRepository) GetByID(id uint) (*models.Item, error) {
	if id == 0 {
		return nil, nil
	}
	var item models.Item
	if err := r.db.First(&item, "item_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// FindByIdentity 按 名称+规格+单位+品牌 查找商品
func (r *GormItemRepository) FindByIdentity(name string, spec int, unit string, brandID uint) (*models.Item, error) {
	var item models.Item
	err := r.db.Where("item_name = ? AND spec = ? AND unit = ? AND brand_id = ?", name, spec, unit, brandID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// List 商品列表，可按品牌与名称关键字过滤
func (r *GormItemRepository) List(filter ItemListFilter) ([]models.Item, error) {
	query := r.db.Model(&models.Item{})
	if filter.BrandID != 0 {
		query = query.Where("brand_id = ?", filter.BrandID)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"item_name"})
		like := "%" + escapeLike(keyword) + "%"
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}

	var items []models.Item
	if err := query.Order("item_id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create 创建商品
func (r *GormItemRepository) Create(item *models.Item) error {
	return r.db.Omit("Brand").Create(item).Error
}

// CountReferences 统计引用该商品的进货记录与活动数量
func (r *GormItemRepository) CountReferences(id uint) (int64, error) {
	var purchaseCount int64
	if err := r.db.Model(&models.Purchase{}).Where("item_id = ?", id).Count(&purchaseCount).Error; err != nil {
		return 0, err
	}
	var activityCount int64
	if err := r.db.Model(&models.Activity{}).Where("item_id = ?", id).Count(&activityCount).Error; err != nil {
		return 0, err
	}
	return purchaseCount + activityCount, nil
}

// PruneIfUnreferenced 商品不再被进货记录或活动引用时删除，返回是否已删除
func (r *GormItemRepository) PruneIfUnreferenced(id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	refs, err := r.CountReferences(id)
	if err != nil {
		return false, err
	}
	if refs > 0 {
		return false, nil
	}
	result := r.db.Where("item_id = ?", id).Delete(&models.Item{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
