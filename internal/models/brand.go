package models

import "time"

// Brand 品牌表
type Brand struct {
	ID        uint      `gorm:"column:brand_id;primarykey" json:"brand_id"`                                 // 主键
	Name      string    `gorm:"column:brand_name;type:varchar(100);uniqueIndex;not null" json:"brand_name"` // 品牌名称（唯一）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                                    // 创建时间
}

// TableName 指定表名
func (Brand) TableName() string {
	return "brands"
}
