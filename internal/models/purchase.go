package models

import "time"

// Purchase 进货记录表
type Purchase struct {
	ID          uint      `gorm:"column:purchase_id;primarykey" json:"purchase_id"`               // 主键
	ItemID      uint      `gorm:"not null;index" json:"item_id"`                                  // 商品ID
	BrandID     uint      `gorm:"not null;index:idx_purchases_brand" json:"brand_id"`             // 品牌ID
	Quantity    int       `gorm:"not null" json:"quantity"`                                       // 数量
	Unit        string    `gorm:"type:varchar(20);not null" json:"unit"`                          // 单位
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null" json:"unit_price"`                  // 单价
	TotalAmount Money     `gorm:"type:decimal(20,2);not null" json:"total_amount"`                // 金额（数量 × 单价）
	Date        string    `gorm:"type:varchar(10);not null;index:idx_purchases_date" json:"date"` // 进货日期 yyyy-mm-dd
	Remarks     *string   `gorm:"type:text" json:"remarks"`                                       // 备注
	CreatedAt   time.Time `json:"created_at"`                                                     // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                                     // 更新时间

	Item  Item  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Brand Brand `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Purchase) TableName() string {
	return "purchases"
}
