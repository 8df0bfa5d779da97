package repository

import (
	"errors"

	"github.com/stockflow/internal/models"

	"gorm.io/gorm"
)

// ActivityRepository 月度活动数据访问接口
type ActivityRepository interface {
	GetByID(id uint) (*models.Activity, error)
	GetTotalTarget(brandID uint, month string) (*models.Activity, error)
	ListMonthly(brandID uint, month string) ([]ActivityRow, error)
	Create(activity *models.Activity) error
	Update(activity *models.Activity) error
	Delete(id uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ActivityRepository
}

// GormActivityRepository GORM 实现
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository 创建活动仓库
func NewActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// WithTx 绑定事务
func (r *GormActivityRepository) WithTx(tx *gorm.DB) ActivityRepository {
	if tx == nil {
		return r
	}
	return &GormActivityRepository{db: tx}
}

// Transaction 执行事务
func (r *GormActivityRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 根据 ID 获取活动
func (r *GormActivityRepository) GetByID(id uint) (*models.Activity, error) {
	if id == 0 {
		return nil, nil
	}
	var activity models.Activity
	if err := r.db.First(&activity, "activity_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

// GetTotalTarget 获取品牌当月总指标
func (r *GormActivityRepository) GetTotalTarget(brandID uint, month string) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.Where("brand_id = ? AND month = ? AND is_total_target = ?", brandID, month, true).
		Order("activity_id ASC").
		First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

// ListMonthly 品牌当月活动列表，总指标在前，其余按创建顺序
func (r *GormActivityRepository) ListMonthly(brandID uint, month string) ([]ActivityRow, error) {
	rows := make([]ActivityRow, 0)
	err := r.db.Model(&models.Activity{}).
		Select("activities.activity_id, activities.brand_id, activities.month, activities.is_total_target, "+
			"activities.item_id, activities.activity_type, activities.need_total_target, activities.need_item_target, "+
			"activities.target_value, activities.original_price, activities.discount_price, "+
			"items.item_name, items.spec, items.unit").
		Joins("LEFT JOIN items ON items.item_id = activities.item_id").
		Where("activities.brand_id = ? AND activities.month = ?", brandID, month).
		Order("activities.is_total_target DESC, activities.activity_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create 创建活动
func (r *GormActivityRepository) Create(activity *models.Activity) error {
	return r.db.Omit("Brand", "Item").Create(activity).Error
}

// Update 更新活动
func (r *GormActivityRepository) Update(activity *models.Activity) error {
	return r.db.Omit("Brand", "Item").Save(activity).Error
}

// Delete 删除活动
func (r *GormActivityRepository) Delete(id uint) (int64, error) {
	result := r.db.Where("activity_id = ?", id).Delete(&models.Activity{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
