package repository

import (
	"errors"

	"github.com/stockflow/internal/models"

	"gorm.io/gorm"
)

// PurchaseRepository 进货记录数据访问接口
type PurchaseRepository interface {
	GetByID(id uint) (*models.Purchase, error)
	Create(purchase *models.Purchase) error
	Update(purchase *models.Purchase) error
	UpdateRemarks(id uint, remarks *string) (int64, error)
	Delete(id uint) (int64, error)
	FindConflictingBrand(itemID, brandID, excludePurchaseID uint) (uint, error)
	ListByBrand(filter PurchaseListFilter) ([]PurchaseRow, int64, error)
	EarliestDate() (string, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) PurchaseRepository
}

// GormPurchaseRepository GORM 实现
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository 创建进货记录仓库
func NewPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPurchaseRepository) WithTx(tx *gorm.DB) PurchaseRepository {
	if tx == nil {
		return r
	}
	return &GormPurchaseRepository{db: tx}
}

// Transaction 执行事务
func (r *GormPurchaseRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 根据 ID 获取进货记录
func (r *GormPurchaseRepository) GetByID(id uint) (*models.Purchase, error) {
	if id == 0 {
		return nil, nil
	}
	var purchase models.Purchase
	if err := r.db.First(&purchase, "purchase_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

// Create 创建进货记录
func (r *GormPurchaseRepository) Create(purchase *models.Purchase) error {
	return r.db.Omit("Item", "Brand").Create(purchase).Error
}

// Update 更新进货记录
func (r *GormPurchaseRepository) Update(purchase *models.Purchase) error {
	return r.db.Omit("Item", "Brand").Save(purchase).Error
}

// UpdateRemarks 仅更新备注
func (r *GormPurchaseRepository) UpdateRemarks(id uint, remarks *string) (int64, error) {
	result := r.db.Model(&models.Purchase{}).Where("purchase_id = ?", id).Update("remarks", remarks)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete 删除进货记录
func (r *GormPurchaseRepository) Delete(id uint) (int64, error) {
	result := r.db.Where("purchase_id = ?", id).Delete(&models.Purchase{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindConflictingBrand 查找该商品在历史进货中绑定的其他品牌，未冲突返回 0
func (r *GormPurchaseRepository) FindConflictingBrand(itemID, brandID, excludePurchaseID uint) (uint, error) {
	var purchase models.Purchase
	query := r.db.Select("purchase_id", "brand_id").Where("item_id = ? AND brand_id <> ?", itemID, brandID)
	if excludePurchaseID != 0 {
		query = query.Where("purchase_id <> ?", excludePurchaseID)
	}
	if err := query.Order("purchase_id ASC").First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return purchase.BrandID, nil
}

// ListByBrand 按品牌分页查询进货记录，可按月份过滤，按日期升序
func (r *GormPurchaseRepository) ListByBrand(filter PurchaseListFilter) ([]PurchaseRow, int64, error) {
	query := r.db.Model(&models.Purchase{}).Where("purchases.brand_id = ?", filter.BrandID)
	if filter.Month != "" {
		start, end, err := monthDateRange(filter.Month)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("purchases.date >= ? AND purchases.date < ?", start, end)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]PurchaseRow, 0)
	query = query.Scopes(paginate(filter.Page, filter.PageSize))
	err := query.
		Select("purchases.purchase_id, purchases.item_id, purchases.brand_id, purchases.quantity, purchases.unit, " +
			"purchases.unit_price, purchases.total_amount, purchases.date, purchases.remarks, " +
			"items.item_name, items.spec, items.unit AS item_unit").
		Joins("JOIN items ON items.item_id = purchases.item_id").
		Order("purchases.date ASC, purchases.purchase_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// EarliestDate 最早的进货日期，无记录返回空串
func (r *GormPurchaseRepository) EarliestDate() (string, error) {
	var earliest *string
	if err := r.db.Model(&models.Purchase{}).Select("MIN(date)").Scan(&earliest).Error; err != nil {
		return "", err
	}
	if earliest == nil {
		return "", nil
	}
	return *earliest, nil
}
