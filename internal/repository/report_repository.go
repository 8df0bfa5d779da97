package repository

import (
	"github.com/stockflow/internal/models"

	"gorm.io/gorm"
)

// ReportRepository 月度汇总查询接口
type ReportRepository interface {
	MonthlyItemTotals(brandID uint, month string) ([]ItemMonthlyTotalRow, error)
}

// GormReportRepository GORM 实现
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建汇总仓库
func NewReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// MonthlyItemTotals 按商品汇总品牌当月进货数量与金额
func (r *GormReportRepository) MonthlyItemTotals(brandID uint, month string) ([]ItemMonthlyTotalRow, error) {
	start, end, err := monthDateRange(month)
	if err != nil {
		return nil, err
	}
	rows := make([]ItemMonthlyTotalRow, 0)
	err = r.db.Model(&models.Purchase{}).
		Select("item_id, COALESCE(SUM(quantity), 0) AS quantity, COALESCE(SUM(total_amount), 0) AS amount").
		Where("brand_id = ? AND date >= ? AND date < ?", brandID, start, end).
		Group("item_id").
		Order("item_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
