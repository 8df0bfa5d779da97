package repository

import (
	"errors"
	"strings"

	"github.com/stockflow/internal/models"

	"gorm.io/gorm"
)

// BrandRepository 品牌数据访问接口
type BrandRepository interface {
	List() ([]models.Brand, error)
	GetByID(id uint) (*models.Brand, error)
	GetByName(name string) (*models.Brand, error)
	Create(brand *models.Brand) error
	Delete(id uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) BrandRepository
}

// GormBrandRepository GORM 实现
type GormBrandRepository struct {
	db *gorm.DB
}

// NewBrandRepository 创建品牌仓库
func NewBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBrandRepository) WithTx(tx *gorm.DB) BrandRepository {
	if tx == nil {
		return r
	}
	return &GormBrandRepository{db: tx}
}

// Transaction 执行事务
func (r *GormBrandRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 品牌列表（按创建顺序）
func (r *GormBrandRepository) List() ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.Order("brand_id ASC").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

// GetByID 根据 ID 获取品牌
func (r *GormBrandRepository) GetByID(id uint) (*models.Brand, error) {
	if id == 0 {
		return nil, nil
	}
	var brand models.Brand
	if err := r.db.First(&brand, "brand_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &brand, nil
}

// GetByName 根据名称获取品牌
func (r *GormBrandRepository) GetByName(name string) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.Where("brand_name = ?", strings.TrimSpace(name)).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &brand, nil
}

// Create 创建品牌
func (r *GormBrandRepository) Create(brand *models.Brand) error {
	return r.db.Create(brand).Error
}

// Delete 删除品牌及其活动、进货记录与商品。
// 外键已声明级联，这里按依赖顺序显式删除，未开启外键的连接同样生效。
func (r *GormBrandRepository) Delete(id uint) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("brand_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("brand_id = ?", id).Delete(&models.Purchase{}).Error; err != nil {
			return err
		}
		if err := tx.Where("brand_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		result := tx.Where("brand_id = ?", id).Delete(&models.Brand{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
