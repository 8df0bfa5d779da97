package models

import "time"

// Activity 月度活动表
// 总指标活动：IsTotalTarget=true，TargetValue 为当月品牌销售额目标，不关联商品。
// 单品活动：关联 ItemID，TargetValue 为单品数量目标。
type Activity struct {
	ID              uint      `gorm:"column:activity_id;primarykey" json:"activity_id"`                 // 主键
	BrandID         uint      `gorm:"not null;index" json:"brand_id"`                                   // 品牌ID
	Month           string    `gorm:"type:varchar(7);not null;index:idx_activities_month" json:"month"` // 月份 YYYY-MM
	IsTotalTarget   bool      `gorm:"not null" json:"is_total_target"`                                  // 是否总指标
	ItemID          *uint     `gorm:"index" json:"item_id"`                                             // 单品活动关联商品
	ActivityType    string    `gorm:"type:varchar(50);not null;default:''" json:"activity_type"`        // 活动类型
	NeedTotalTarget bool      `gorm:"not null" json:"need_total_target"`                                // 是否需完成总指标
	NeedItemTarget  bool      `gorm:"not null" json:"need_item_target"`                                 // 是否需完成单品指标
	TargetValue     Money     `gorm:"type:decimal(20,2);not null" json:"target_value"`                  // 目标值（总指标为金额，单品为数量）
	OriginalPrice   *Money    `gorm:"type:decimal(20,2)" json:"original_price"`                         // 原价
	DiscountPrice   *Money    `gorm:"type:decimal(20,2)" json:"discount_price"`                         // 优惠价
	CreatedAt       time.Time `json:"created_at"`                                                       // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                                       // 更新时间

	Brand Brand `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Item  *Item `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Activity) TableName() string {
	return "activities"
}
