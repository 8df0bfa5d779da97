package models

// Item 商品表（按品牌隔离，名称+规格+单位唯一）
type Item struct {
	ID      uint   `gorm:"column:item_id;primarykey" json:"item_id"`                                                               // 主键
	Name    string `gorm:"column:item_name;type:varchar(200);not null;uniqueIndex:idx_items_identity,priority:1" json:"item_name"` // 品名
	Spec    int    `gorm:"not null;uniqueIndex:idx_items_identity,priority:2" json:"spec"`                                         // 规格（每件包含的基础单位数）
	Unit    string `gorm:"type:varchar(20);not null;uniqueIndex:idx_items_identity,priority:3" json:"unit"`                        // 单位
	BrandID uint   `gorm:"not null;index:idx_items_brand;uniqueIndex:idx_items_identity,priority:4" json:"brand_id"`               // 所属品牌

	Brand Brand `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Item) TableName() string {
	return "items"
}
