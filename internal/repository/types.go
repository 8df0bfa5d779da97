package repository

import (
	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/models"
)

// ItemListFilter 查询商品列表的过滤条件
type ItemListFilter struct {
	BrandID uint
	Keyword string
}

// PurchaseListFilter 查询进货记录的过滤条件
type PurchaseListFilter struct {
	BrandID  uint
	Page     int
	PageSize int
	Month    string // YYYY-MM，为空表示不过滤
}

// PurchaseRow 进货记录列表行（附带商品信息，供展示与导出）
type PurchaseRow struct {
	PurchaseID  uint         `json:"purchase_id"`
	ItemID      uint         `json:"item_id"`
	BrandID     uint         `json:"brand_id"`
	Quantity    int          `json:"quantity"`
	Unit        string       `json:"unit"`
	UnitPrice   models.Money `json:"unit_price"`
	TotalAmount models.Money `json:"total_amount"`
	Date        string       `json:"date"`
	Remarks     *string      `json:"remarks"`
	ItemName    string       `json:"item_name"`
	Spec        int          `json:"spec"`
	ItemUnit    string       `json:"item_unit"`
}

// ActivityRow 月度活动列表行（单品活动附带商品信息）
type ActivityRow struct {
	ActivityID      uint          `json:"activity_id"`
	BrandID         uint          `json:"brand_id"`
	Month           string        `json:"month"`
	IsTotalTarget   bool          `json:"is_total_target"`
	ItemID          *uint         `json:"item_id"`
	ActivityType    string        `json:"activity_type"`
	NeedTotalTarget bool          `json:"need_total_target"`
	NeedItemTarget  bool          `json:"need_item_target"`
	TargetValue     models.Money  `json:"target_value"`
	OriginalPrice   *models.Money `json:"original_price"`
	DiscountPrice   *models.Money `json:"discount_price"`
	ItemName        *string       `json:"item_name"`
	Spec            *int          `json:"spec"`
	Unit            *string       `json:"unit"`
}

// HasPrices 原价与优惠价均已设置，优惠价为 0 也算设置
func (r ActivityRow) HasPrices() bool {
	return r.OriginalPrice != nil && r.DiscountPrice != nil
}

// EffectiveSpec 返回用于返点计算的规格，缺失或非正数时按默认规格处理
func (r ActivityRow) EffectiveSpec() int {
	if r.Spec == nil || *r.Spec <= 0 {
		return constants.DefaultItemSpec
	}
	return *r.Spec
}

// ItemMonthlyTotalRow 单品月度进货汇总
type ItemMonthlyTotalRow struct {
	ItemID   uint
	Quantity int64
	Amount   models.Money
}
